package workflow

import (
	"context"
	"fmt"
	"strings"

	"github.com/JaimeStill/go-agents-orchestration/pkg/state"
)

// NotifyNode returns the stage that emails the sender: a confirmation
// when the order validated cleanly, or a request for the missing fields.
func NotifyNode(rt *Runtime) state.StateNode {
	return stageNode(StageNotify, rt, true, notify)
}

func notify(ctx context.Context, rt *Runtime, st State) (State, error) {
	email, err := composeNotification(ctx, rt, st)
	if err != nil {
		return st, err
	}

	if err := rt.Email.Send(ctx, email); err != nil {
		return st, err
	}

	if len(st.MissingFields) > 0 {
		st.MissingInfoSent = true
	} else {
		st.ConfirmationSent = true
	}
	st.LogAction("sent %q to %s", email.Subject, email.To)

	rt.Logger.InfoContext(
		ctx, "notify stage complete",
		"run_id", st.RunID,
		"to", email.To,
		"missing_info", len(st.MissingFields) > 0,
	)

	return st, nil
}

func composeNotification(ctx context.Context, rt *Runtime, st State) (Email, error) {
	var (
		subject string
		name    string
		params  map[string]string
	)

	if len(st.MissingFields) > 0 {
		subject = fmt.Sprintf("Action Required: Missing info for %s", st.POID)
		name = "missing_info"
		params = map[string]string{
			"po_id":          st.POID,
			"customer":       customerName(st),
			"missing_fields": strings.Join(st.MissingFields, ", "),
		}
	} else {
		subject = fmt.Sprintf("Order Confirmation: %s", st.POID)
		name = "confirmation"
		params = map[string]string{
			"po_id":    st.POID,
			"customer": customerName(st),
		}
	}

	prompt, err := rt.Prompts.GetAndRender("notify", name, params)
	if err != nil {
		return Email{}, fmt.Errorf("compose %s prompt: %w", name, err)
	}

	body, err := rt.Generator.Generate(ctx, prompt)
	if err != nil {
		return Email{}, fmt.Errorf("draft %s body: %w", name, err)
	}

	return Email{
		To:       st.Sender,
		Subject:  subject,
		Body:     body,
		ThreadID: st.ThreadID,
	}, nil
}

func customerName(st State) string {
	if customer := st.Fields[FieldCustomer]; customer != "" {
		return customer
	}
	return st.Sender
}

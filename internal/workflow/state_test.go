package workflow

import (
	"reflect"
	"testing"
)

func TestFinalStatus(t *testing.T) {
	tests := []struct {
		name string
		st   State
		want Status
	}{
		{
			name: "error takes precedence over everything",
			st: State{
				ErrorMessage:  "ExtractNode failed: timeout",
				IsValidPO:     false,
				MissingFields: []string{FieldCustomer},
			},
			want: StatusError,
		},
		{
			name: "invalid order is skipped",
			st:   State{IsValidPO: false},
			want: StatusSkipped,
		},
		{
			name: "missing fields on a valid order",
			st: State{
				IsValidPO:     true,
				MissingFields: []string{FieldDriverPhone},
			},
			want: StatusMissingInfo,
		},
		{
			name: "clean run completes",
			st:   State{IsValidPO: true},
			want: StatusCompleted,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := finalStatus(tt.st); got != tt.want {
				t.Errorf("finalStatus() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestSheetRow(t *testing.T) {
	st := State{
		POID:   "PO-1001",
		Fields: completeFields(),
	}

	got := SheetRow(st)
	want := []string{
		"PO-1001",
		"Acme Freight",
		"Dock 4, Springfield",
		"12 Harbor Rd, Portland",
		"2026-09-02T14:00:00Z",
		"R. Alvarez",
		"555-0142",
		RowStatusComplete,
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("SheetRow() = %v, want %v", got, want)
	}

	st.MissingFields = []string{FieldDriverPhone}
	got = SheetRow(st)
	if got[len(got)-1] != RowStatusPendingInfo {
		t.Errorf("row status = %s, want %s", got[len(got)-1], RowStatusPendingInfo)
	}
}

func TestExtractedFieldsMap(t *testing.T) {
	orderID := "PO-7"
	customer := "Acme"
	empty := ""

	f := ExtractedFields{
		OrderID:  &orderID,
		Customer: &customer,
		// remaining fields null
		DriverPhone: &empty,
	}

	got := f.Map()
	want := map[string]string{
		FieldOrderID:     "PO-7",
		FieldCustomer:    "Acme",
		FieldDriverPhone: "",
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Map() = %v, want %v", got, want)
	}
}

func TestStageTitle(t *testing.T) {
	if got := stageTitle(StageClassify); got != "Classify" {
		t.Errorf("stageTitle(classify) = %s", got)
	}
	if got := containedError(StageExtract, errSentinel); got != "ExtractNode failed: boom" {
		t.Errorf("containedError = %s", got)
	}
}

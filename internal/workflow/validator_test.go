package workflow

import (
	"reflect"
	"testing"
)

func completeFields() map[string]string {
	return map[string]string{
		FieldOrderID:          "PO-1001",
		FieldCustomer:         "Acme Freight",
		FieldPickupLocation:   "Dock 4, Springfield",
		FieldDeliveryLocation: "12 Harbor Rd, Portland",
		FieldDeliveryDatetime: "2026-09-02T14:00:00Z",
		FieldDriverName:       "R. Alvarez",
		FieldDriverPhone:      "555-0142",
	}
}

func completeConfidences(score float64) map[string]float64 {
	confidences := make(map[string]float64, len(FieldNames))
	for _, name := range FieldNames {
		confidences[name] = score
	}
	return confidences
}

func TestValidatorCheck(t *testing.T) {
	v := Validator{Threshold: 0.5}

	tests := []struct {
		name        string
		fields      map[string]string
		confidences map[string]float64
		want        []Issue
	}{
		{
			name:        "all fields present and confident",
			fields:      completeFields(),
			confidences: completeConfidences(0.9),
			want:        nil,
		},
		{
			name: "absent field is missing",
			fields: func() map[string]string {
				f := completeFields()
				delete(f, FieldDriverPhone)
				return f
			}(),
			confidences: completeConfidences(0.9),
			want:        []Issue{{Field: FieldDriverPhone, Reason: ReasonMissing}},
		},
		{
			name: "empty field is missing",
			fields: func() map[string]string {
				f := completeFields()
				f[FieldCustomer] = ""
				return f
			}(),
			confidences: completeConfidences(0.9),
			want:        []Issue{{Field: FieldCustomer, Reason: ReasonMissing}},
		},
		{
			name:   "low confidence field is flagged",
			fields: completeFields(),
			confidences: func() map[string]float64 {
				c := completeConfidences(0.9)
				c[FieldDeliveryDatetime] = 0.3
				return c
			}(),
			want: []Issue{{Field: FieldDeliveryDatetime, Reason: ReasonLowConfidence}},
		},
		{
			name:   "confidence equal to threshold passes",
			fields: completeFields(),
			confidences: func() map[string]float64 {
				c := completeConfidences(0.9)
				c[FieldDriverName] = 0.5
				return c
			}(),
			want: nil,
		},
		{
			name:   "absent confidence entry scores zero",
			fields: completeFields(),
			confidences: func() map[string]float64 {
				c := completeConfidences(0.9)
				delete(c, FieldPickupLocation)
				return c
			}(),
			want: []Issue{{Field: FieldPickupLocation, Reason: ReasonLowConfidence}},
		},
		{
			name:        "nil maps flag every field as missing",
			fields:      nil,
			confidences: nil,
			want: []Issue{
				{Field: FieldOrderID, Reason: ReasonMissing},
				{Field: FieldCustomer, Reason: ReasonMissing},
				{Field: FieldPickupLocation, Reason: ReasonMissing},
				{Field: FieldDeliveryLocation, Reason: ReasonMissing},
				{Field: FieldDeliveryDatetime, Reason: ReasonMissing},
				{Field: FieldDriverName, Reason: ReasonMissing},
				{Field: FieldDriverPhone, Reason: ReasonMissing},
			},
		},
		{
			name: "issues preserve canonical order",
			fields: func() map[string]string {
				f := completeFields()
				delete(f, FieldDriverPhone)
				delete(f, FieldOrderID)
				return f
			}(),
			confidences: func() map[string]float64 {
				c := completeConfidences(0.9)
				c[FieldCustomer] = 0.1
				return c
			}(),
			want: []Issue{
				{Field: FieldOrderID, Reason: ReasonMissing},
				{Field: FieldCustomer, Reason: ReasonLowConfidence},
				{Field: FieldDriverPhone, Reason: ReasonMissing},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := v.Check(tt.fields, tt.confidences)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Check() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestMissingFields(t *testing.T) {
	issues := []Issue{
		{Field: FieldOrderID, Reason: ReasonMissing},
		{Field: FieldDriverName, Reason: ReasonLowConfidence},
	}

	got := MissingFields(issues)
	want := []string{FieldOrderID, FieldDriverName}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("MissingFields() = %v, want %v", got, want)
	}

	if MissingFields(nil) != nil {
		t.Error("MissingFields(nil) should be nil")
	}
}

func TestValidationMessages(t *testing.T) {
	issues := []Issue{
		{Field: FieldOrderID, Reason: ReasonMissing},
		{Field: FieldCustomer, Reason: ReasonLowConfidence},
	}

	got := ValidationMessages(issues)
	want := []string{
		"order_id is missing or empty",
		"customer was extracted with low confidence",
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ValidationMessages() = %v, want %v", got, want)
	}

	if ValidationMessages(nil) != nil {
		t.Error("ValidationMessages(nil) should be nil")
	}
}

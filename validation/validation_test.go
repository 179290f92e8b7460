package validation

import "testing"

type itemReq struct {
	Description string  `json:"description" validate:"required"`
	Quantity    float64 `json:"quantity" validate:"gt=0"`
}

type sampleReq struct {
	Name   string    `json:"name" validate:"required"`
	Email  string    `json:"email" validate:"required,email"`
	Amount float64   `json:"amount" validate:"gte=0"`
	Kind   string    `json:"kind" validate:"omitempty,oneof=a b"`
	Items  []itemReq `json:"items" validate:"required,min=1,dive"`
}

func TestStruct(t *testing.T) {
	tests := []struct {
		name string
		in   sampleReq
		want Violations
	}{
		{
			name: "valid",
			in:   sampleReq{Name: "n", Email: "a@b.co", Items: []itemReq{{Description: "d", Quantity: 1}}},
			want: Violations{},
		},
		{
			name: "missing fields",
			in:   sampleReq{},
			want: Violations{"name": "required", "email": "required", "items": "required"},
		},
		{
			name: "bad values",
			in: sampleReq{
				Name:   "n",
				Email:  "nope",
				Amount: -1,
				Kind:   "c",
				Items:  []itemReq{{Description: "", Quantity: 0}},
			},
			want: Violations{
				"email":                "invalid_email",
				"amount":               "must_not_be_negative",
				"kind":                 "invalid_value",
				"items[0].description": "required",
				"items[0].quantity":    "must_be_positive",
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := Violations{}
			Struct(tt.in, v)
			if len(v) != len(tt.want) {
				t.Fatalf("Struct() = %v, want %v", v, tt.want)
			}
			for k, want := range tt.want {
				if v[k] != want {
					t.Errorf("Struct()[%q] = %q, want %q", k, v[k], want)
				}
			}
		})
	}
}

func TestBasicValidators(t *testing.T) {
	v := Violations{}
	Required("name", "  ", v)
	PositiveFloat("amount", 0, v)
	NonNegativeFloat("tax", -2, v)
	RangeFloat("rate", 2, 0, 1, v)
	if v["name"] != "required" || v["amount"] != "must_be_positive" || v["tax"] != "must_not_be_negative" || v["rate"] != "out_of_range" {
		t.Fatalf("unexpected violations %v", v)
	}
	if v.Empty() {
		t.Fatal("Empty() = true with violations")
	}
}

package models

import (
	"encoding/json"
	"testing"
	"time"
)

func TestDateUnmarshalJSON(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    time.Time
		wantErr bool
	}{
		{"calendar day", `"2024-03-01"`, time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC), false},
		{"rfc3339", `"2024-03-01T10:30:00Z"`, time.Date(2024, time.March, 1, 10, 30, 0, 0, time.UTC), false},
		{"rfc3339 with offset", `"2024-03-01T10:30:00+02:00"`, time.Date(2024, time.March, 1, 8, 30, 0, 0, time.UTC), false},
		{"empty string", `""`, time.Time{}, false},
		{"null", `null`, time.Time{}, false},
		{"garbage", `"first of march"`, time.Time{}, true},
		{"number", `20240301`, time.Time{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var d Date
			err := json.Unmarshal([]byte(tt.in), &d)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %v", d.Time)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !d.Time.Equal(tt.want) {
				t.Errorf("got %v, want %v", d.Time, tt.want)
			}
		})
	}
}

func TestDateInStruct(t *testing.T) {
	var in struct {
		Date *Date `json:"date"`
	}
	if err := json.Unmarshal([]byte(`{"date":"2024-12-31"}`), &in); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if in.Date == nil || in.Date.Format(DateLayout) != "2024-12-31" {
		t.Errorf("date = %v", in.Date)
	}
}

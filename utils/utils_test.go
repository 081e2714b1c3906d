package utils

import (
	"testing"
	"time"
)

func TestElapsedTime(t *testing.T) {
	cases := []struct {
		name       string
		start, end string
		want       time.Duration
		wantErr    bool
	}{
		{"same hour", "10:00", "10:45", 45 * time.Minute, false},
		{"across hours", "09:15", "11:40", 2*time.Hour + 25*time.Minute, false},
		{"midnight rollover", "23:30", "01:10", time.Hour + 40*time.Minute, false},
		{"zero duration", "08:00", "08:00", 0, false},
		{"bad start", "ocho", "09:00", 0, true},
		{"bad end", "08:00", "", 0, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ElapsedTime(tc.start, tc.end)
			if tc.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tc.want {
				t.Errorf("got %v, want %v", got, tc.want)
			}
		})
	}
}

func TestFormatElapsed(t *testing.T) {
	if got := FormatElapsed(time.Hour + 25*time.Minute); got != "1h 25m" {
		t.Errorf("got %q", got)
	}
	if got := FormatElapsed(40 * time.Minute); got != "40m" {
		t.Errorf("got %q", got)
	}
}

func TestNiceDate(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"03/01/2024", "Mar 1/2024"},
		{"01/15/2024", "Ene 15/2024"},
		{"12/09/2023", "Dic 9/2023"},
		{"garbage", "garbage"},
		{"13/01/2024", "13/01/2024"}, // unknown month passes through
	}
	for _, tc := range cases {
		if got := NiceDate(tc.in); got != tc.want {
			t.Errorf("NiceDate(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestJoinPassengers(t *testing.T) {
	got := JoinPassengers("Ana Ruiz", "Seleccione una...", "", "Luis Soto")
	if got != "Ana Ruiz, Luis Soto" {
		t.Errorf("got %q", got)
	}
	if JoinPassengers("", "Seleccione una...") != "" {
		t.Error("placeholders alone must yield empty")
	}
}

func TestValidEmail(t *testing.T) {
	valid := []string{"ana@example.com", "a.b+c@sub.dominio.co"}
	invalid := []string{"", "sin-correo", "a@b", "dos @espacios.com", "@vacio.com"}

	for _, e := range valid {
		if !ValidEmail(e) {
			t.Errorf("%q rejected", e)
		}
	}
	for _, e := range invalid {
		if ValidEmail(e) {
			t.Errorf("%q accepted", e)
		}
	}
}

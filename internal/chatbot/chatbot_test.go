package chatbot

import (
	"strings"
	"testing"
)

func TestRespondMatchesKeywords(t *testing.T) {
	cases := []struct {
		message  string
		fragment string
	}{
		{"How do I fund my wallet?", "minimum ₦1,000"},
		{"how to buy airtime", "minimum ₦50"},
		{"how do I purchase data", "SME, Direct Data"},
		{"what is sme data", "Corporate Gifting"},
		{"my payment is pending", "Wait 5-10 minutes"},
		{"which network do you support", "9mobile"},
		{"hello", "Welcome to XtraData"},
	}
	for _, tc := range cases {
		response := Respond(tc.message)
		if !strings.Contains(response, tc.fragment) {
			t.Errorf("Respond(%q) = %q, want fragment %q", tc.message, response, tc.fragment)
		}
	}
}

func TestRespondIsCaseInsensitive(t *testing.T) {
	if Respond("FUND MY WALLET") != Respond("fund my wallet") {
		t.Fatal("matching must ignore case")
	}
}

func TestRespondFallsBackToDefault(t *testing.T) {
	response := Respond("quantum entanglement")
	if response != defaultResponse {
		t.Fatalf("unexpected fallback: %q", response)
	}
}

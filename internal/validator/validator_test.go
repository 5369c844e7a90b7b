package validator

import "testing"

func TestValidatePhone(t *testing.T) {
	valid := []string{"08012345678", "09098765432", "07011111111"}
	for _, phone := range valid {
		if err := ValidatePhone(phone); err != nil {
			t.Errorf("ValidatePhone(%q) = %v, want nil", phone, err)
		}
	}
	invalid := []string{"", "0801234567", "080123456789", "O8012345678", "0801 234567", "+2348012345678"}
	for _, phone := range invalid {
		if err := ValidatePhone(phone); err == nil {
			t.Errorf("ValidatePhone(%q) = nil, want error", phone)
		}
	}
}

func TestValidateNetwork(t *testing.T) {
	for _, network := range Networks {
		if err := ValidateNetwork(network); err != nil {
			t.Errorf("ValidateNetwork(%q) = %v, want nil", network, err)
		}
	}
	for _, network := range []string{"", "mtn", "Verizon", "9Mobile"} {
		if err := ValidateNetwork(network); err == nil {
			t.Errorf("ValidateNetwork(%q) = nil, want error", network)
		}
	}
}

func TestValidateEmail(t *testing.T) {
	if err := ValidateEmail("chidi@example.com"); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	for _, email := range []string{"", "not-an-email", "a@b", "a b@c.com"} {
		if err := ValidateEmail(email); err == nil {
			t.Errorf("ValidateEmail(%q) = nil, want error", email)
		}
	}
}

func TestValidateUsername(t *testing.T) {
	if err := ValidateUsername("chidi_01"); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	for _, username := range []string{"ab", "has space", "way-too-long-username-over-thirty-chars"} {
		if err := ValidateUsername(username); err == nil {
			t.Errorf("ValidateUsername(%q) = nil, want error", username)
		}
	}
}

func TestValidatePassword(t *testing.T) {
	if err := ValidatePassword("longenough"); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if err := ValidatePassword("short"); err == nil {
		t.Error("expected short password to be rejected")
	}
}

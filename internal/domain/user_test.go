package domain

import "testing"

func TestNewUserDefaults(t *testing.T) {
	u := NewUser("Ada", "ada@campus.edu", RoleStudent)

	if u.ID == "" {
		t.Fatal("expected generated ID")
	}
	if u.CreatedAt.IsZero() || u.UpdatedAt.IsZero() {
		t.Fatal("expected stamped timestamps")
	}
	if err := u.Validate(); err != nil {
		t.Fatalf("fresh user must validate: %v", err)
	}
}

func TestUserValidate(t *testing.T) {
	valid := func() *User { return NewUser("Ada", "ada@campus.edu", RoleStudent) }

	tests := []struct {
		name    string
		mutate  func(u *User)
		wantErr bool
	}{
		{"valid", func(u *User) {}, false},
		{"missing id", func(u *User) { u.ID = "" }, true},
		{"missing email", func(u *User) { u.Email = "" }, true},
		{"unknown role", func(u *User) { u.Role = "wizard" }, true},
		{"negative balance", func(u *User) { u.Balance = -1 }, true},
		{"discount over 100", func(u *User) { u.DiscountPct = 101 }, true},
		{"discount at bounds", func(u *User) { u.DiscountPct = 100 }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u := valid()
			tt.mutate(u)
			err := u.Validate()
			if tt.wantErr && err == nil {
				t.Fatal("expected validation error")
			}
			if !tt.wantErr && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestRoleValid(t *testing.T) {
	for _, role := range []Role{RoleStudent, RoleTeacher, RoleAdmin, RoleUser, RoleTutor} {
		if !role.Valid() {
			t.Fatalf("role %s must be valid", role)
		}
	}
	if Role("janitor").Valid() {
		t.Fatal("unknown role must be invalid")
	}
}

func TestPasswordRoundTrip(t *testing.T) {
	u := NewUser("Ada", "ada@campus.edu", RoleStudent)
	if err := u.SetPassword("correct horse"); err != nil {
		t.Fatalf("set password: %v", err)
	}
	if u.PasswordHash == "correct horse" {
		t.Fatal("password must not be stored in the clear")
	}
	if !u.CheckPassword("correct horse") {
		t.Fatal("correct password must verify")
	}
	if u.CheckPassword("battery staple") {
		t.Fatal("wrong password must not verify")
	}
}

package core

import "testing"

func TestNormalize(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{" @Foo (Twitch) ", "foo"},
		{"foo", "foo"},
		{"", ""},
		{"   ", ""},
		{"@@Bar", "bar"},
		{"Baz (YouTube)(Kick)", "baz"},
		{" @ Qux ", "qux"},
		{"(Twitch)", ""},
		{"Mid (dle) Name", "mid (dle) name"},
		{"ÜBER", "über"},
	}
	for _, tc := range cases {
		if got := Normalize(tc.in); got != tc.want {
			t.Errorf("Normalize(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	inputs := []string{
		" @Foo (Twitch) ",
		"x (a) (b)",
		" @ @ y ",
		"@(z)",
		"Name (",
		"Name )",
		"\t@Some One (Twitch)\n",
	}
	for _, in := range inputs {
		once := Normalize(in)
		if twice := Normalize(once); twice != once {
			t.Errorf("Normalize not idempotent for %q: %q then %q", in, once, twice)
		}
	}
}

func TestAllowList(t *testing.T) {
	empty := NewAllowList(nil)
	if !empty.Empty() || !empty.Permits("anyone") || !empty.Permits("") {
		t.Error("expected empty allow-list to permit everyone")
	}

	blank := NewAllowList([]string{"", "  ", "(Twitch)"})
	if !blank.Empty() {
		t.Errorf("expected blank entries to be dropped, got %d names", blank.Len())
	}

	list := NewAllowList([]string{"User1", " @user2 (Twitch)", "USER1"})
	if list.Len() != 2 {
		t.Errorf("expected 2 distinct names, got %d", list.Len())
	}
	for _, name := range []string{"user1", "@User1", "User2 (YouTube)", " user2 "} {
		if !list.Permits(name) {
			t.Errorf("expected %q to be permitted", name)
		}
	}
	for _, name := range []string{"Stranger", "", "user3"} {
		if list.Permits(name) {
			t.Errorf("expected %q to be rejected", name)
		}
	}
}

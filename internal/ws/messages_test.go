package ws

import (
	"encoding/json"
	"testing"
)

func TestCommandValidation(t *testing.T) {
	yes := true
	cases := []struct {
		name  string
		cmd   Command
		valid bool
	}{
		{"set_ready with flag", Command{Type: CmdSetReady, Ready: &yes}, true},
		{"set_ready missing flag", Command{Type: CmdSetReady}, false},
		{"buzz", Command{Type: CmdBuzz}, true},
		{"next", Command{Type: CmdNext}, true},
		{"answer with text", Command{Type: CmdAnswer, Answer: "42"}, true},
		{"answer empty", Command{Type: CmdAnswer}, false},
		{"complete with time", Command{Type: CmdComplete, ElapsedTime: 9.5}, true},
		{"complete without time", Command{Type: CmdComplete}, false},
		{"complete negative time", Command{Type: CmdComplete, ElapsedTime: -1}, false},
		{"unknown type", Command{Type: "reboot"}, false},
		{"empty type", Command{}, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.cmd.Validate(); got != tc.valid {
				t.Errorf("Validate() = %v, want %v", got, tc.valid)
			}
		})
	}
}

func TestCommandDecodesFromWire(t *testing.T) {
	raw := `{"type":"submit_answer","answer":"Paris"}`
	var cmd Command
	if err := json.Unmarshal([]byte(raw), &cmd); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if !cmd.Validate() {
		t.Error("well-formed answer command rejected")
	}
	if cmd.Answer != "Paris" {
		t.Errorf("answer = %q", cmd.Answer)
	}
}

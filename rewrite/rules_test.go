package rewrite

import (
	"testing"
)

func TestCollapseWhitespace(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"double space", "a  b", "a b"},
		{"trims ends", "  a  ", "a"},
		{"newline run", "a\n\nb", "a b"},
		{"mixed run", "a \t b", "a b"},
		{"single tab survives", "a\tb", "a\tb"},
		{"single newline survives", "a\nb", "a\nb"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := collapseWhitespace(tt.in); got != tt.want {
				t.Errorf("collapseWhitespace(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestRemoveRedundancy(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"politeness deleted", "Please review the code", "review the code"},
		{"case insensitive", "PLEASE stop", "stop"},
		{"kindly deleted", "kindly check this", "check this"},
		{"intensifiers deleted", "this is very really important", "this is important"},
		{"preamble consumed as a unit", "Could you please review this", "review this"},
		{"i would like you to", "I would like you to summarize it", "summarize it"},
		{"in order to", "in order to win", "to win"},
		{"due to the fact that", "late due to the fact that it rained", "late because it rained"},
		{"at this point in time", "at this point in time we wait", "now we wait"},
		{"for the purpose of", "for the purpose of testing", "to testing"},
		{"no match", "nothing to remove here", "nothing to remove here"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := removeRedundancy(tt.in); got != tt.want {
				t.Errorf("removeRedundancy(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestSimplifyWording(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"utilize", "utilize the helper", "use the helper"},
		{"capitalized match", "Utilize it", "use it"},
		{"several words", "We utilize tools to demonstrate results", "We use tools to show results"},
		{"approximately", "approximately ten", "about ten"},
		{"therefore", "therefore it holds", "so it holds"},
		{"whole word only", "the implementation detail", "the implementation detail"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := simplifyWording(tt.in); got != tt.want {
				t.Errorf("simplifyWording(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestCollapsePunctuation(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"double bang", "Wow!!", "Wow."},
		{"interrobang", "What?!", "What."},
		{"ellipsis", "wait...", "wait."},
		{"long mixed run", "no way?!?!?!", "no way."},
		{"single mark untouched", "done?", "done?"},
		{"separated marks untouched", "a. b. c.", "a. b. c."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := collapsePunctuation(tt.in); got != tt.want {
				t.Errorf("collapsePunctuation(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestActivateVoice(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"is being with ed verb", "the job is being worked on", "the job works on"},
		{"is being without ed verb", "This is being done.", "This dones."},
		{"was ed by", "the patch was reviewed by alice", "the patch alice reviewed"},
		{"were ed by", "the docs were approved by bob", "the docs bob approved"},
		{"irregular verb never matches", "it was written by alice", "it was written by alice"},
		{"case insensitive", "It Is Being Tested now", "It Tests now"},
		{"no passive", "alice reviewed the patch", "alice reviewed the patch"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := activateVoice(tt.in); got != tt.want {
				t.Errorf("activateVoice(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

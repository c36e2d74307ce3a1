package terminal

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"

	"yackgo/pkg/input"
	"yackgo/pkg/keyer"
)

func TestTranslate(t *testing.T) {
	tests := []struct {
		name string
		key  byte
		want []input.Event
	}{
		{"Letter", 'c', []input.Event{{Kind: input.Char, Char: 'C'}}},
		{"Upper", 'Q', []input.Event{{Kind: input.Char, Char: 'Q'}}},
		{"Digit", '5', []input.Event{{Kind: input.Char, Char: '5'}}},
		{"Space", ' ', []input.Event{{Kind: input.Char, Char: ' '}}},
		{"Slash", '/', []input.Event{{Kind: input.Char, Char: '/'}}},
		{"Tab", '\t', []input.Event{{Kind: input.Control}}},
		{"Esc", 0x1b, []input.Event{{Kind: input.Control}}},
		{"Dit", ',', []input.Event{
			{Kind: input.Contact, Side: keyer.Dit, Down: true},
			{Kind: input.Contact, Side: keyer.Dit},
		}},
		{"Dah", '.', []input.Event{
			{Kind: input.Contact, Side: keyer.Dah, Down: true},
			{Kind: input.Contact, Side: keyer.Dah},
		}},
		{"Unmapped", '~', nil},
		{"Enter", '\r', nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Translate(tt.key))
		})
	}
}

func TestOpen_NotTerminal(t *testing.T) {
	f, err := os.CreateTemp(t.TempDir(), "stdin")
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	_, err = Open(f, nil)
	assert.ErrorIs(t, err, ErrNotTerminal)
}

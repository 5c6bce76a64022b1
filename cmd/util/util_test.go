package util

import (
	"bytes"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPromptYesOrNo(t *testing.T) {
	tests := []struct {
		name  string
		input string
		exp   bool
	}{
		{
			name:  "yes",
			input: "y\n",
			exp:   true,
		},
		{
			name:  "no",
			input: "no\n",
			exp:   false,
		},
		{
			name:  "garbage then yes",
			input: "maybe\nYES\n",
			exp:   true,
		},
	}

	for _, test := range tests {
		test := test
		t.Run(test.name, func(t *testing.T) {
			stdin = strings.NewReader(test.input)
			resp, err := PromptYesOrNo("Proceed?")
			assert.NoError(t, err)
			assert.Equal(t, test.exp, resp)
		})
	}
}

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestProgressPrinter(t *testing.T) {
	out := &syncBuffer{}
	pp := NewProgressPrinter(out, "Working")
	pp.interval = time.Millisecond

	go pp.Run()
	for {
		// Wait until at least one dot has been printed so the test exercises
		// the ticker path.
		if strings.Contains(out.String(), "Working.") {
			break
		}
		time.Sleep(time.Millisecond)
	}
	pp.StopWithPrint(ClearProgress)

	assert.True(t, strings.HasPrefix(out.String(), "Working."))
	assert.True(t, strings.HasSuffix(out.String(), ClearProgress))
}

package clipboard

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSystem_WriteAll(t *testing.T) {
	var got string
	s := &System{
		write:       func(text string) error { got = text; return nil },
		unsupported: func() bool { return false },
	}

	assert.NoError(t, s.WriteAll("Name,Phone"))
	assert.Equal(t, "Name,Phone", got)
}

func TestSystem_Unsupported(t *testing.T) {
	s := &System{
		write:       func(string) error { t.Fatal("write called"); return nil },
		unsupported: func() bool { return true },
	}

	assert.ErrorIs(t, s.WriteAll("x"), ErrUnsupported)
}

func TestSystem_WriteError(t *testing.T) {
	s := &System{
		write:       func(string) error { return errors.New("exit status 1") },
		unsupported: func() bool { return false },
	}

	err := s.WriteAll("x")

	assert.ErrorContains(t, err, "exit status 1")
}

func TestNewSystem(t *testing.T) {
	s := NewSystem()

	assert.NotNil(t, s.write)
	assert.NotNil(t, s.unsupported)
}

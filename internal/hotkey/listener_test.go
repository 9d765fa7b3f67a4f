package hotkey

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewListenerNormalizesChords(t *testing.T) {
	l, err := NewListener([]string{" Command ", "."}, []string{"ESC"}, nil)
	require.NoError(t, err)
	require.Equal(t, []string{"command", "."}, l.Toggle())
	require.Equal(t, []string{"esc"}, l.Cancel())
}

func TestNewListenerRequiresToggle(t *testing.T) {
	_, err := NewListener(nil, []string{"esc"}, nil)
	require.Error(t, err)
	require.Contains(t, err.Error(), "toggle hotkey")
}

func TestNewListenerAllowsEmptyCancel(t *testing.T) {
	l, err := NewListener([]string{"command", "."}, nil, nil)
	require.NoError(t, err)
	require.Empty(t, l.Cancel())
}

func TestNewListenerRejectsBlankKeys(t *testing.T) {
	_, err := NewListener([]string{"command", " "}, nil, nil)
	require.Error(t, err)

	_, err = NewListener([]string{"command", "."}, []string{""}, nil)
	require.Error(t, err)
	require.Contains(t, err.Error(), "cancel hotkey")
}

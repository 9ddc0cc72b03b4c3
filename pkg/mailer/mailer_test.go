package mailer

import (
	"errors"
	"net/smtp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	_, err := New(Config{Port: "587", Sender: "noreply@example.com"})
	assert.Error(t, err)

	_, err = New(Config{Host: "smtp.example.com", Port: "587"})
	assert.Error(t, err)

	m, err := New(Config{Host: "smtp.example.com", Port: "587", Sender: "noreply@example.com"})
	require.NoError(t, err)
	assert.NotNil(t, m)
}

func TestSendEmail(t *testing.T) {
	t.Run("Happy path", func(t *testing.T) {
		m, err := New(Config{Host: "smtp.example.com", Port: "2525", Username: "u", Password: "p", Sender: "noreply@example.com"})
		require.NoError(t, err)

		var gotAddr string
		var gotTo []string
		var gotMsg []byte
		m.send = func(addr string, a smtp.Auth, from string, to []string, msg []byte) error {
			gotAddr, gotTo, gotMsg = addr, to, msg
			assert.NotNil(t, a)
			assert.Equal(t, "noreply@example.com", from)
			return nil
		}

		require.NoError(t, m.SendEmail("voter@example.com", "Receipt", "<p>Thanks</p>"))
		assert.Equal(t, "smtp.example.com:2525", gotAddr)
		assert.Equal(t, []string{"voter@example.com"}, gotTo)
		assert.Contains(t, string(gotMsg), "Content-Type: text/html; charset=UTF-8")
	})

	t.Run("Unhappy path - transport error", func(t *testing.T) {
		m, err := New(Config{Host: "smtp.example.com", Port: "2525", Sender: "noreply@example.com"})
		require.NoError(t, err)
		m.send = func(string, smtp.Auth, string, []string, []byte) error { return errors.New("refused") }

		err = m.SendEmail("voter@example.com", "Receipt", "plain")
		assert.ErrorContains(t, err, "refused")
	})

	t.Run("Unhappy path - empty recipient", func(t *testing.T) {
		m, err := New(Config{Host: "smtp.example.com", Port: "2525", Sender: "noreply@example.com"})
		require.NoError(t, err)
		assert.Error(t, m.SendEmail("", "Receipt", "plain"))
	})
}

func TestBuildMessage(t *testing.T) {
	msg := string(BuildMessage("a@example.com", "b@example.com", "Hi", "plain body"))
	assert.Contains(t, msg, "To: a@example.com\r\n")
	assert.Contains(t, msg, "From: b@example.com\r\n")
	assert.Contains(t, msg, "Content-Type: text/plain; charset=UTF-8")
	assert.Contains(t, msg, "\r\n\r\nplain body\r\n")
}

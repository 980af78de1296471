package mailer

import (
	"bytes"
	"context"
	"net"
	"testing"
	"time"

	"github.com/Payphone-Digital/addressbook/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestSMTPSender_BuildMessage(t *testing.T) {
	s := NewSMTPSender(config.SMTPConfig{SenderEmail: "noreply@addressbook.local"})

	msg, err := s.buildMessage("user@example.com", "Password Reset Request", "token abc123")
	require.NoError(t, err)

	var buf bytes.Buffer
	_, err = msg.WriteTo(&buf)
	require.NoError(t, err)

	raw := buf.String()
	assert.Contains(t, raw, "Subject: Password Reset Request")
	assert.Contains(t, raw, "<user@example.com>")
	assert.Contains(t, raw, "<noreply@addressbook.local>")
	assert.Contains(t, raw, "token abc123")
}

func TestSMTPSender_RejectsBadAddresses(t *testing.T) {
	s := NewSMTPSender(config.SMTPConfig{SenderEmail: "not an address"})
	_, err := s.buildMessage("user@example.com", "s", "b")
	assert.Error(t, err)

	s = NewSMTPSender(config.SMTPConfig{SenderEmail: "noreply@addressbook.local"})
	_, err = s.buildMessage("nope", "s", "b")
	assert.Error(t, err)
}

func TestSMTPSender_UnreachableServer(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	port := ln.Addr().(*net.TCPAddr).Port
	ln.Close()

	s := NewSMTPSender(config.SMTPConfig{
		Host:        "127.0.0.1",
		Port:        port,
		SenderEmail: "noreply@addressbook.local",
		Timeout:     time.Second,
	})

	err = s.Send(context.Background(), "user@example.com", "s", "b")
	assert.Error(t, err)
}

func TestLogSender(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	s := NewLogSender(zap.New(core))

	require.NoError(t, s.Send(context.Background(), "user@example.com", "Password Reset Request", "secret"))

	require.Equal(t, 2, logs.Len())
	assert.Equal(t, "user@example.com", logs.All()[0].ContextMap()["to"])
	assert.Equal(t, "secret", logs.All()[1].ContextMap()["body"])
}

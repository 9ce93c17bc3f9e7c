package communication

import (
	"bytes"
	"io"
	"mime"
	"mime/multipart"
	"net/mail"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildEmailBuffer(t *testing.T) {
	content := bytes.Repeat([]byte("xlsx"), 100)
	buf, err := BuildEmailBuffer(&EmailInfo{
		From:    "reports@example.com",
		To:      []string{"hr@example.com", "boss@example.com"},
		Subject: "Attendance report March 2024",
		Text:    "Report attached.",
		Attachments: []Attachment{{
			Filename:    "Attendance_March_2024.xlsx",
			ContentType: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
			Content:     content,
		}},
	})
	require.NoError(t, err)

	msg, err := mail.ReadMessage(buf)
	require.NoError(t, err)
	assert.Equal(t, "hr@example.com, boss@example.com", msg.Header.Get("To"))

	mediaType, params, err := mime.ParseMediaType(msg.Header.Get("Content-Type"))
	require.NoError(t, err)
	assert.Equal(t, "multipart/mixed", mediaType)

	reader := multipart.NewReader(msg.Body, params["boundary"])

	alt, err := reader.NextPart()
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(alt.Header.Get("Content-Type"), "multipart/alternative"))

	att, err := reader.NextPart()
	require.NoError(t, err)
	assert.Equal(t, "Attendance_March_2024.xlsx", att.FileName())
	// multipart.Part decodes quoted-printable only, base64 stays encoded
	encoded, err := io.ReadAll(att)
	require.NoError(t, err)
	assert.Contains(t, string(encoded), "\r\n")

	_, err = reader.NextPart()
	assert.ErrorIs(t, err, io.EOF)
}

func TestBuildEmailBufferRequiresAddresses(t *testing.T) {
	_, err := BuildEmailBuffer(&EmailInfo{Subject: "x"})
	assert.Error(t, err)
}

package notification

import (
	"LearnTrack/pkg/logger"
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type captureSender struct {
	sent []Message
	err  error
}

func (c *captureSender) Send(_ context.Context, msg Message) error {
	if c.err != nil {
		return c.err
	}
	c.sent = append(c.sent, msg)
	return nil
}

func TestDispatcherRendersEachKind(t *testing.T) {
	sender := &captureSender{}
	d := NewDispatcher(logger.Nop(), sender)
	ctx := context.Background()

	require.NoError(t, d.SendLessonCompletion(ctx, "ada@example.com", "Ada", "Closures", "Go Basics"))
	require.NoError(t, d.SendModuleCompletion(ctx, "ada@example.com", "Ada", "Functions", "Go Basics"))
	require.NoError(t, d.SendCourseCompletion(ctx, "ada@example.com", "Ada", "Go Basics"))

	require.Len(t, sender.sent, 3)

	assert.Equal(t, "Lesson completed: Closures", sender.sent[0].Subject)
	assert.Contains(t, sender.sent[0].TextBody, `"Closures" in Go Basics`)
	assert.Equal(t, "ada@example.com", sender.sent[0].To)
	assert.Equal(t, "Ada", sender.sent[0].ToName)

	assert.Equal(t, "Module completed: Functions", sender.sent[1].Subject)
	assert.Equal(t, "Course completed: Go Basics", sender.sent[2].Subject)
	assert.Contains(t, sender.sent[2].TextBody, "Congratulations Ada")
}

func TestDispatcherEscapesHTMLBody(t *testing.T) {
	sender := &captureSender{}
	d := NewDispatcher(logger.Nop(), sender)

	require.NoError(t, d.SendCourseCompletion(context.Background(), "x@example.com", "<b>", "A & B"))
	require.Len(t, sender.sent, 1)
	assert.NotContains(t, sender.sent[0].HTMLBody, "<b>")
	assert.Contains(t, sender.sent[0].HTMLBody, "&amp;")
}

func TestDispatcherWithoutRecipient(t *testing.T) {
	sender := &captureSender{}
	d := NewDispatcher(logger.Nop(), sender)

	err := d.SendLessonCompletion(context.Background(), "  ", "Ada", "L", "C")
	assert.ErrorIs(t, err, ErrNoRecipient)
	assert.Empty(t, sender.sent)
}

func TestDispatcherWrapsSenderError(t *testing.T) {
	boom := errors.New("smtp down")
	d := NewDispatcher(logger.Nop(), &captureSender{err: boom})

	err := d.SendCourseCompletion(context.Background(), "ada@example.com", "Ada", "Go Basics")
	assert.ErrorIs(t, err, boom)
}

type fakeSES struct {
	input *sesv2.SendEmailInput
}

func (f *fakeSES) SendEmail(_ context.Context, params *sesv2.SendEmailInput, _ ...func(*sesv2.Options)) (*sesv2.SendEmailOutput, error) {
	f.input = params
	return &sesv2.SendEmailOutput{}, nil
}

func TestSESSenderBuildsInput(t *testing.T) {
	client := &fakeSES{}
	s := newSESSender(client, "LearnTrack", "noreply@learntrack.dev")

	err := s.Send(context.Background(), Message{To: "ada@example.com", Subject: "Hi", TextBody: "text", HTMLBody: "<p>text</p>"})
	require.NoError(t, err)

	require.NotNil(t, client.input)
	assert.Equal(t, "LearnTrack <noreply@learntrack.dev>", aws.ToString(client.input.FromEmailAddress))
	assert.Equal(t, []string{"ada@example.com"}, client.input.Destination.ToAddresses)
	assert.Equal(t, "Hi", aws.ToString(client.input.Content.Simple.Subject.Data))
	assert.Equal(t, "text", aws.ToString(client.input.Content.Simple.Body.Text.Data))
}

func TestSendgridPrepare(t *testing.T) {
	s := NewSendgridSender("key", "LearnTrack", "noreply@learntrack.dev")

	m := s.prepare(Message{To: "ada@example.com", ToName: "Ada", Subject: "Hi", TextBody: "t", HTMLBody: "<p>t</p>"})

	require.Len(t, m.Personalizations, 1)
	assert.Equal(t, "Hi", m.Personalizations[0].Subject)
	require.Len(t, m.Personalizations[0].To, 1)
	assert.Equal(t, "ada@example.com", m.Personalizations[0].To[0].Address)
	assert.Equal(t, "noreply@learntrack.dev", m.From.Address)
	require.Len(t, m.Content, 2)
	assert.Equal(t, "text/plain", m.Content[0].Type)
}

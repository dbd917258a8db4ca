package notification

import (
	"LearnTrack/pkg/logger"
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"text/template"
)

// ErrNoRecipient is returned when the learner has no contact handle on file.
var ErrNoRecipient = errors.New("notification: no recipient")

type Message struct {
	To       string
	ToName   string
	Subject  string
	TextBody string
	HTMLBody string
}

type Sender interface {
	Send(ctx context.Context, msg Message) error
}

type templatePair struct {
	subject *template.Template
	body    *template.Template
}

type templateData struct {
	Name        string
	LessonTitle string
	ModuleTitle string
	CourseTitle string
}

const (
	kindLesson = "lesson"
	kindModule = "module"
	kindCourse = "course"
)

var templates = map[string]templatePair{
	kindLesson: {
		subject: template.Must(template.New("lesson_subject").Parse(`Lesson completed: {{.LessonTitle}}`)),
		body: template.Must(template.New("lesson_body").Parse(
			`Hi {{.Name}}, you just completed "{{.LessonTitle}}" in {{.CourseTitle}}. Keep going!`)),
	},
	kindModule: {
		subject: template.Must(template.New("module_subject").Parse(`Module completed: {{.ModuleTitle}}`)),
		body: template.Must(template.New("module_body").Parse(
			`Great work {{.Name}}! You finished every lesson of "{{.ModuleTitle}}" in {{.CourseTitle}}.`)),
	},
	kindCourse: {
		subject: template.Must(template.New("course_subject").Parse(`Course completed: {{.CourseTitle}}`)),
		body: template.Must(template.New("course_body").Parse(
			`Congratulations {{.Name}}! You completed the course "{{.CourseTitle}}". Your certificate is ready.`)),
	},
}

// Dispatcher renders completion messages and hands them to a Sender.
type Dispatcher struct {
	log    logger.Log
	sender Sender
}

func NewDispatcher(log logger.Log, sender Sender) *Dispatcher {
	return &Dispatcher{log: log.With("component", "notification"), sender: sender}
}

func (d *Dispatcher) SendLessonCompletion(ctx context.Context, to, name, lessonTitle, courseTitle string) error {
	return d.dispatch(ctx, kindLesson, to, templateData{Name: name, LessonTitle: lessonTitle, CourseTitle: courseTitle})
}

func (d *Dispatcher) SendModuleCompletion(ctx context.Context, to, name, moduleTitle, courseTitle string) error {
	return d.dispatch(ctx, kindModule, to, templateData{Name: name, ModuleTitle: moduleTitle, CourseTitle: courseTitle})
}

func (d *Dispatcher) SendCourseCompletion(ctx context.Context, to, name, courseTitle string) error {
	return d.dispatch(ctx, kindCourse, to, templateData{Name: name, CourseTitle: courseTitle})
}

func (d *Dispatcher) dispatch(ctx context.Context, kind, to string, data templateData) error {
	if strings.TrimSpace(to) == "" {
		return ErrNoRecipient
	}

	msg, err := render(kind, data)
	if err != nil {
		return err
	}
	msg.To = to
	msg.ToName = data.Name

	if err := d.sender.Send(ctx, msg); err != nil {
		return fmt.Errorf("send %s completion: %w", kind, err)
	}
	d.log.Debug("completion notification sent", "kind", kind, "contact", to)
	return nil
}

func render(kind string, data templateData) (Message, error) {
	tp, ok := templates[kind]
	if !ok {
		return Message{}, fmt.Errorf("unknown notification kind %q", kind)
	}

	var subject, body bytes.Buffer
	if err := tp.subject.Execute(&subject, data); err != nil {
		return Message{}, fmt.Errorf("render %s subject: %w", kind, err)
	}
	if err := tp.body.Execute(&body, data); err != nil {
		return Message{}, fmt.Errorf("render %s body: %w", kind, err)
	}

	return Message{
		Subject:  subject.String(),
		TextBody: body.String(),
		HTMLBody: "<p>" + template.HTMLEscapeString(body.String()) + "</p>",
	}, nil
}

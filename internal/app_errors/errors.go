package app_errors

import "errors"

var ErrInvalidProgress = errors.New("invalid progress update")
var ErrUserNotFound = errors.New("user not found")
var ErrCourseNotFound = errors.New("course not found")
var ErrModuleNotFound = errors.New("module not found")
var ErrLessonNotFound = errors.New("lesson not found")
var ErrProgressNotFound = errors.New("progress not found")
var ErrXPSummaryNotFound = errors.New("xp summary not found")
var ErrCertificateNotFound = errors.New("certificate not found")
var ErrCourseNotCompleted = errors.New("course not completed")
var ErrStorageDisabled = errors.New("storage backend disabled")

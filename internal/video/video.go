// Copyright (c) 2026 Healthy Tips. All rights reserved.
// Author: dimitar.nikolovv@gmail.com

/*
Package video implements the video asset domain: upload, metadata lifecycle,
deletion, and public reads.

# Architecture

The binary payload lives in object storage; the database row carries the
metadata and points at the object. The two cannot be written atomically, so
the service layer orders its writes to guarantee a single failure mode: an
orphaned object in storage is possible, a database row pointing at a missing
object is not. See [Service.Upload] and [Service.Delete].
*/
package video

import (
	"time"
)

// # Publication Status

// Status is the publication state of a video.
type Status string

const (
	// StatusDraft keeps the video visible only in the admin area.
	StatusDraft Status = "draft"

	// StatusPublished lists the video publicly and allows streaming.
	StatusPublished Status = "published"
)

// IsValid reports whether the status is one of the known states.
func (s Status) IsValid() bool {
	return s == StatusDraft || s == StatusPublished
}

// # Domain Entity

// Video is the metadata record of one uploaded video asset.
type Video struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Slug        string `json:"slug"`
	Description string `json:"description"`
	Status      Status `json:"status"`

	// Bucket and ObjectKey locate the binary payload in object storage.
	// ObjectKey is unique: every upload mints a fresh key, never reuses one.
	Bucket    string `json:"-"`
	ObjectKey string `json:"-"`

	OriginalFilename string `json:"original_filename"`
	MimeType         string `json:"mime_type"`
	FileSize         int64  `json:"file_size"`

	// UploadedByUserID is nil when the uploading account was since removed.
	UploadedByUserID *string `json:"uploaded_by_user_id,omitempty"`

	// PublishedAt records the first moment the video went public. It is set
	// once on the draft→published transition, kept over republishing, and
	// cleared when the video returns to draft.
	PublishedAt *time.Time `json:"published_at,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// IsPublished reports whether the video is publicly visible.
func (v *Video) IsPublished() bool {
	return v.Status == StatusPublished
}

// # Upload Constraints

const (
	// MaxUploadBytes caps the accepted video payload at 500MB.
	MaxUploadBytes = 500 << 20

	// TitleMinLen / TitleMaxLen bound the title on upload.
	TitleMinLen = 3
	TitleMaxLen = 180

	// UpdateTitleMaxLen is the (slightly wider) title bound on metadata edits.
	UpdateTitleMaxLen = 200

	// DescriptionMaxLen bounds the optional description.
	DescriptionMaxLen = 2000

	// MaxSlugAttempts bounds the slug collision loop. Exceeding it fails the
	// upload rather than probing forever.
	MaxSlugAttempts = 50

	// DefaultExtension is used when the original filename carries none.
	DefaultExtension = "mp4"

	// ObjectKeyPrefix is the storage folder for video payloads.
	ObjectKeyPrefix = "videos/"
)

// allowedMimeTypes is the upload allow-list. Anything else is rejected before
// touching storage.
var allowedMimeTypes = map[string]struct{}{
	"video/mp4":        {},
	"video/webm":       {},
	"video/ogg":        {},
	"video/quicktime":  {},
	"video/x-matroska": {},
}

// IsAllowedMimeType reports whether the content type may be uploaded.
func IsAllowedMimeType(mimeType string) bool {
	_, ok := allowedMimeTypes[mimeType]
	return ok
}

// # Field Identifiers

const (
	FieldTitle       = "title"
	FieldDescription = "description"
	FieldStatus      = "status"
	FieldVideoFile   = "videoFile"
	FieldVideoID     = "videoID"
)

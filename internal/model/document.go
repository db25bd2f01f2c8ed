package model

import "time"

// ShareType is the access mode of a share link.
type ShareType string

const (
	ShareNone         ShareType = "none"
	ShareNoPassword   ShareType = "no_password"
	ShareWithPassword ShareType = "with_password"
)

// Valid reports whether t names a share mode that can be requested.
func (t ShareType) Valid() bool {
	return t == ShareNoPassword || t == ShareWithPassword
}

// Document represents a stored file owned by one identity.
// This is a pure domain model with no database-specific dependencies or tags.
// It can be used across layers (HTTP, service, storage) without coupling to persistence.
type Document struct {
	ID            int64     `json:"id"`
	FileUUID      string    `json:"file_uuid"`
	ContentHash   string    `json:"content_hash"`
	Size          int64     `json:"size"`
	MimeType      string    `json:"mime_type"`
	Filename      string    `json:"filename"`
	StoragePath   string    `json:"storage_path"`
	OwnerID       int64     `json:"owner_id"`
	IsPublic      bool      `json:"is_public"`
	DownloadCount int64     `json:"download_count"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`

	ShareUUID      *string    `json:"-"`
	ShareType      ShareType  `json:"-"`
	ShareCode      *string    `json:"-"`
	ShareExpiresAt *time.Time `json:"-"`
	// IsShared mirrors the stored flag. Use ShareActive to decide access.
	IsShared bool `json:"-"`
}

// Share is the share sub-state written to a document as one unit.
// A nil *Share clears it.
type Share struct {
	UUID      string
	Type      ShareType
	Code      *string
	ExpiresAt *time.Time
}

// ShareActive reports whether the document is reachable through its share
// link at instant now. Expiry is exclusive: at ShareExpiresAt the link is dead.
func (d *Document) ShareActive(now time.Time) bool {
	if d.ShareUUID == nil || *d.ShareUUID == "" {
		return false
	}
	if d.ShareExpiresAt != nil && !now.Before(*d.ShareExpiresAt) {
		return false
	}
	return true
}

// ApplyShare replaces the share sub-state wholesale; nil clears it.
func (d *Document) ApplyShare(s *Share, now time.Time) {
	d.UpdatedAt = now
	if s == nil {
		d.ShareUUID = nil
		d.ShareType = ShareNone
		d.ShareCode = nil
		d.ShareExpiresAt = nil
		d.IsShared = false
		return
	}
	id := s.UUID
	d.ShareUUID = &id
	d.ShareType = s.Type
	d.ShareCode = nil
	if s.Type == ShareWithPassword && s.Code != nil {
		code := *s.Code
		d.ShareCode = &code
	}
	d.ShareExpiresAt = nil
	if s.ExpiresAt != nil {
		exp := *s.ExpiresAt
		d.ShareExpiresAt = &exp
	}
	d.IsShared = true
}

// ShareDescriptor is the public-facing view of a share link.
type ShareDescriptor struct {
	DocumentID     int64      `json:"document_id"`
	ShareUUID      string     `json:"share_uuid"`
	ShareType      ShareType  `json:"share_type"`
	ShareCode      *string    `json:"share_code,omitempty"`
	ShareExpiresAt *time.Time `json:"share_expires_at"`
	Filename       string     `json:"filename"`
}

// ShareInfo is what an anonymous visitor may learn about a link before
// presenting its access code.
type ShareInfo struct {
	Filename         string     `json:"filename"`
	ShareType        ShareType  `json:"share_type"`
	RequiresPassword bool       `json:"requires_password"`
	ExpiresAt        *time.Time `json:"share_expires_at"`
}

// DescribeShare builds the owner's descriptor from the document's share state.
// It returns nil when the document carries no share link.
func DescribeShare(d *Document) *ShareDescriptor {
	if d.ShareUUID == nil {
		return nil
	}
	return &ShareDescriptor{
		DocumentID:     d.ID,
		ShareUUID:      *d.ShareUUID,
		ShareType:      d.ShareType,
		ShareCode:      d.ShareCode,
		ShareExpiresAt: d.ShareExpiresAt,
		Filename:       d.Filename,
	}
}

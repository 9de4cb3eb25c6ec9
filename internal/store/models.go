package store

import editcontent "github.com/goliatone/go-editkit/content"

type (
	ContentRecord  = editcontent.ContentRecord
	ContentHistory = editcontent.ContentHistory
	Envelope       = editcontent.Envelope
	NotFoundError  = editcontent.NotFoundError
)

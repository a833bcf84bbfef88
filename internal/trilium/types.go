package trilium

// Note is a note as ETAPI returns it. BlobID is the opaque content
// hash; it changes iff the content changes and is the token callers
// echo back for optimistic concurrency.
type Note struct {
	NoteID          string      `json:"noteId"`
	Title           string      `json:"title"`
	Type            string      `json:"type"`
	Mime            string      `json:"mime,omitempty"`
	IsProtected     bool        `json:"isProtected,omitempty"`
	BlobID          string      `json:"blobId,omitempty"`
	Attributes      []Attribute `json:"attributes,omitempty"`
	ParentNoteIDs   []string    `json:"parentNoteIds,omitempty"`
	ChildNoteIDs    []string    `json:"childNoteIds,omitempty"`
	DateCreated     string      `json:"dateCreated,omitempty"`
	DateModified    string      `json:"dateModified,omitempty"`
	UTCDateCreated  string      `json:"utcDateCreated,omitempty"`
	UTCDateModified string      `json:"utcDateModified,omitempty"`
}

// Attribute is a label or relation owned by a note.
type Attribute struct {
	AttributeID   string `json:"attributeId,omitempty"`
	NoteID        string `json:"noteId,omitempty"`
	Type          string `json:"type"`
	Name          string `json:"name"`
	Value         string `json:"value,omitempty"`
	Position      int    `json:"position,omitempty"`
	IsInheritable bool   `json:"isInheritable,omitempty"`
}

// CreateNoteParams is the body of POST /create-note. The upstream
// requires a content field even for kinds that ignore it.
type CreateNoteParams struct {
	ParentNoteID string `json:"parentNoteId"`
	Title        string `json:"title"`
	Type         string `json:"type"`
	Mime         string `json:"mime,omitempty"`
	Content      string `json:"content"`
}

// AttributeParams is the body of POST /attributes.
type AttributeParams struct {
	NoteID        string `json:"noteId"`
	Type          string `json:"type"`
	Name          string `json:"name"`
	Value         string `json:"value,omitempty"`
	Position      int    `json:"position,omitempty"`
	IsInheritable bool   `json:"isInheritable,omitempty"`
}

// PatchNoteParams carries the metadata fields PATCH /notes/{id} may
// change. Nil pointers are left untouched upstream.
type PatchNoteParams struct {
	Title *string `json:"title,omitempty"`
	Mime  *string `json:"mime,omitempty"`
}

type searchResponse struct {
	Results []Note `json:"results"`
}

type createNoteResponse struct {
	Note *Note `json:"note"`
}

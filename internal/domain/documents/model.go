package documents

import (
	"time"

	"github.com/google/uuid"

	"github.com/clinicboard/clinicboard/pkg/isotime"
)

// Document maps to the document table. The content lives in the blob store
// under ObjectKey.
type Document struct {
	ID          uuid.UUID `db:"id"`
	PatientID   uuid.UUID `db:"patient_id"`
	FileName    string    `db:"file_name"`
	ContentType string    `db:"content_type"`
	SizeBytes   int64     `db:"size_bytes"`
	ObjectKey   string    `db:"object_key"`
	UploadedBy  uuid.UUID `db:"uploaded_by"`
	CreatedAt   time.Time `db:"created_at"`
}

// ObjectKey is the blob key for a patient's document.
func ObjectKey(patientID, documentID uuid.UUID) string {
	return "patients/" + patientID.String() + "/" + documentID.String()
}

// Upload describes incoming content.
type Upload struct {
	FileName    string
	ContentType string
	Size        int64
}

type DocumentView struct {
	ID          string `json:"id"`
	PatientID   string `json:"patientId"`
	FileName    string `json:"fileName"`
	ContentType string `json:"contentType"`
	SizeBytes   int64  `json:"sizeBytes"`
	UploadedBy  string `json:"uploadedBy"`
	CreatedAt   string `json:"createdAt"`
}

func (d *Document) View() DocumentView {
	return DocumentView{
		ID:          d.ID.String(),
		PatientID:   d.PatientID.String(),
		FileName:    d.FileName,
		ContentType: d.ContentType,
		SizeBytes:   d.SizeBytes,
		UploadedBy:  d.UploadedBy.String(),
		CreatedAt:   isotime.Format(d.CreatedAt),
	}
}

func Views(docs []*Document) []DocumentView {
	out := make([]DocumentView, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.View())
	}
	return out
}

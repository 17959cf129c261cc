package model

type LegalDocument struct {
	ID        string `json:"id"`
	Name      string `json:"document_name"`
	Type      string `json:"document_type"`
	IssueDate int64  `json:"document_date_issue"`
	Signee    string `json:"document_signee"`
	URL       string `json:"document_url"`
	Ctime     int64  `json:"ctime"`
}

const DocumentTypePDF = "PDF"

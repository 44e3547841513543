package dto

// IngestDocumentRequest queues a file or a directory of filings for indexing
type IngestDocumentRequest struct {
	Path string `json:"path" validate:"required"`
}

type IngestDocumentResponse struct {
	JobId string `json:"job_id"`
}

// IngestDocumentMessage is the payload on the ingest topic
type IngestDocumentMessage struct {
	JobId string `json:"job_id"`
	Path  string `json:"path"`
}

type IndexStatsResponse struct {
	Ticker string `json:"ticker,omitempty"`
	Chunks int    `json:"chunks"`
}

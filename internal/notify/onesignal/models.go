package onesignal

import "encoding/json"

type localized struct {
	En string `json:"en"`
}

type createRequest struct {
	AppID            string    `json:"app_id"`
	IncludedSegments []string  `json:"included_segments"`
	Headings         localized `json:"headings"`
	Contents         localized `json:"contents"`
	URL              string    `json:"url"`
	ExternalID       string    `json:"external_id,omitempty"`
}

type createResponse struct {
	ID         string          `json:"id"`
	Recipients int             `json:"recipients"`
	Errors     json.RawMessage `json:"errors,omitempty"`
}

package wsmodels

type ServerMessage struct {
	ToEmail       string `json:"-"`
	Time          string `json:"time"`           // event time, RFC 3339
	Code          string `json:"code"`           // notification template tag
	Msg           string `json:"msg"`            // notification subject
	ApplicationID string `json:"application_id"` // empty for admin previews
}

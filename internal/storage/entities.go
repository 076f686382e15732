package storage

// Account is a registered user identity
type Account struct {
	ID       int64  `json:"account_id"`
	Username string `json:"username"`
	Password string `json:"password"`
}

// Message is a short text post authored by an account
type Message struct {
	ID              int64  `json:"message_id"`
	PostedBy        int64  `json:"posted_by"`
	Text            string `json:"message_text"`
	TimePostedEpoch int64  `json:"time_posted_epoch"`
}

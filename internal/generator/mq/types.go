package mq

type request struct {
	UUID      string `json:"uuid"`
	UserID    int    `json:"user_id"`
	Excel     string `json:"excel"`
	Template  string `json:"template"`
	HeaderRow int    `json:"header_row,omitempty"`
}

type response struct {
	UUID      string   `json:"uuid"`
	UserID    int      `json:"user_id"`
	OutputDir string   `json:"output_dir,omitempty"`
	Processed int      `json:"processed"`
	Succeeded int      `json:"succeeded"`
	Failed    int      `json:"failed"`
	Errors    []string `json:"errors,omitempty"`
}

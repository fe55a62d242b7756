package auth

type LoginData struct {
	Username string
	Error    string
	Next     string
}

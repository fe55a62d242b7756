package auth

import (
	"github.com/a-h/templ"

	"github.com/codr1/wfxconsole/internal/templates/markup"
)

func LoginForm(data LoginData) templ.Component {
	return markup.Func(func(w *markup.Writer) {
		w.Raw(`<main class="login"><form id="login-form" class="login__card" method="post" action="/login">`)
		w.Raw(`<h1>Sign in</h1>`)
		if data.Error != "" {
			w.Printf(`<div class="error-banner" role="alert">%s</div>`, data.Error)
		}
		w.Printf(`<input type="hidden" name="next" value="%s">`, data.Next)
		w.Printf(`<label for="username">Username</label><input id="username" name="username" autocomplete="username" value="%s" required>`, data.Username)
		w.Raw(`<label for="password">Password</label><input id="password" name="password" type="password" autocomplete="current-password" required>`)
		w.Raw(`<button type="submit">Sign in</button></form></main>`)
	})
}

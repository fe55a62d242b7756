package themes

import "github.com/codr1/wfxconsole/internal/themes"

type Option struct {
	themes.Theme
	IsActive bool
}

func NewOptions(list []themes.Theme, activeID string) []Option {
	options := make([]Option, len(list))
	for i, theme := range list {
		options[i] = Option{Theme: theme, IsActive: theme.ID == activeID}
	}
	return options
}

package dashboard

type Card struct {
	Icon    string
	Value   string
	Label   string
	Variant string // "", "success" or "warning"
}

type DashboardData struct {
	Subtitle string
	Cards    []Card
}

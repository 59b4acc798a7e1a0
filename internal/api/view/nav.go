package view

// View slugs under /asset-intelligence.
const (
	SlugPredictiveRisk = "predictive-risk"
	SlugRepairReplace  = "repair-replace"
	SlugBenchmarking   = "benchmarking"
	SlugAssetLibrary   = "asset-library"
	SlugCopilot        = "copilot"
)

// BasePath is the guarded dashboard subtree.
const BasePath = "/asset-intelligence"

// NavItem is one dashboard view in the sidebar.
type NavItem struct {
	Slug        string
	Name        string
	Description string
}

// Href is the item's page path.
func (i NavItem) Href() string {
	return BasePath + "/" + i.Slug
}

// NavSection groups sidebar items under a heading.
type NavSection struct {
	Title string
	Items []NavItem
}

var navigation = []NavSection{
	{
		Title: "Core Features",
		Items: []NavItem{
			{Slug: SlugPredictiveRisk, Name: "Prescriptive Maintenance", Description: "AI-powered action plans & scheduling"},
			{Slug: SlugRepairReplace, Name: "Repair vs Replace", Description: "Prescriptive maintenance planning"},
			{Slug: SlugBenchmarking, Name: "Benchmarking", Description: "Performance comparison & metrics"},
		},
	},
	{
		Title: "Insights & Tools",
		Items: []NavItem{
			{Slug: SlugAssetLibrary, Name: "Asset Insights", Description: "Cost comparisons & lifecycle analysis"},
			{Slug: SlugCopilot, Name: "AI Copilot", Description: "GenAI assistant for technicians"},
		},
	},
}

// Navigation returns the sidebar sections in display order.
func Navigation() []NavSection {
	out := make([]NavSection, len(navigation))
	for i, s := range navigation {
		out[i] = NavSection{Title: s.Title, Items: append([]NavItem(nil), s.Items...)}
	}
	return out
}

// LookupView finds a dashboard view by slug.
func LookupView(slug string) (NavItem, bool) {
	for _, s := range navigation {
		for _, item := range s.Items {
			if item.Slug == slug {
				return item, true
			}
		}
	}
	return NavItem{}, false
}

package normalize

import "strings"

// Icon is the canonical weather glyph rendered by the dashboard.
type Icon string

const (
	IconSun       Icon = "Sun"
	IconCloudSun  Icon = "CloudSun"
	IconCloudy    Icon = "Cloudy"
	IconCloudRain Icon = "CloudRain"
	IconWind      Icon = "Wind"
)

// iconRule matches when the phrase contains every keyword in all.
type iconRule struct {
	icon Icon
	all  []string
}

// iconRules is ordered; the first matching rule wins.
var iconRules = []iconRule{
	{IconCloudRain, []string{"rain"}},
	{IconCloudRain, []string{"shower"}},
	{IconCloudRain, []string{"thunder"}},
	{IconCloudRain, []string{"drizzle"}},
	{IconCloudRain, []string{"storm"}},
	// No snow icon; frozen precipitation renders as cloud cover.
	{IconCloudy, []string{"snow"}},
	{IconCloudy, []string{"sleet"}},
	{IconCloudy, []string{"flurr"}},
	{IconCloudy, []string{"blizzard"}},
	{IconCloudy, []string{"hail"}},
	{IconCloudSun, []string{"cloud", "sun"}},
	{IconCloudSun, []string{"partly", "cloud"}},
	{IconCloudy, []string{"cloud"}},
	{IconCloudy, []string{"overcast"}},
	{IconCloudy, []string{"fog"}},
	{IconCloudy, []string{"mist"}},
	{IconWind, []string{"wind"}},
	{IconWind, []string{"breez"}},
	{IconWind, []string{"gust"}},
	{IconSun, []string{"sun"}},
	{IconSun, []string{"clear"}},
	{IconSun, []string{"hot"}},
}

// IconFor maps a provider condition phrase to an Icon. Unknown or empty
// phrases map to IconSun.
func IconFor(phrase string) Icon {
	p := strings.ToLower(phrase)
	for _, rule := range iconRules {
		if hasAll(p, rule.all...) {
			return rule.icon
		}
	}
	return IconSun
}

// hasAll returns true if s contains every one of the substrings.
func hasAll(s string, subs ...string) bool {
	for _, sub := range subs {
		if !strings.Contains(s, sub) {
			return false
		}
	}
	return true
}

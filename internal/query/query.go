// Package query builds Google News search expressions for tracked companies.
package query

import (
	"fmt"
	"net/url"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Company is one tracked organization with its search aliases.
type Company struct {
	Name    string   `yaml:"name"`
	Aliases []string `yaml:"aliases"`
}

// DefaultCompanies is the built-in roster of tracked pharma companies.
var DefaultCompanies = []Company{
	{Name: "Pfizer 辉瑞", Aliases: []string{"Pfizer", "辉瑞"}},
	{Name: "Merck 默沙东", Aliases: []string{"Merck", "默沙东", "MSD"}},
	{Name: "J&J 强生", Aliases: []string{"Johnson & Johnson", "J&J", "强生"}},
	{Name: "Roche 罗氏", Aliases: []string{"Roche", "罗氏"}},
	{Name: "Novartis 诺华", Aliases: []string{"Novartis", "诺华"}},
	{Name: "AstraZeneca 阿斯利康", Aliases: []string{"AstraZeneca", "阿斯利康"}},
	{Name: "GSK 葛兰素史克", Aliases: []string{"GSK", "GlaxoSmithKline", "葛兰素史克"}},
	{Name: "Sanofi 赛诺菲", Aliases: []string{"Sanofi", "赛诺菲"}},
	{Name: "BMS 百时美施贵宝", Aliases: []string{"Bristol Myers Squibb", "BMS", "百时美施贵宝"}},
	{Name: "AbbVie 艾伯维", Aliases: []string{"AbbVie", "艾伯维"}},
	{Name: "Amgen 安进", Aliases: []string{"Amgen", "安进"}},
	{Name: "Eli Lilly 礼来", Aliases: []string{"Eli Lilly", "Lilly", "礼来"}},
	{Name: "Novo Nordisk 诺和诺德", Aliases: []string{"Novo Nordisk", "诺和诺德"}},
	{Name: "Moderna", Aliases: []string{"Moderna"}},
	{Name: "BioNTech", Aliases: []string{"BioNTech"}},
	{Name: "恒瑞医药", Aliases: []string{"恒瑞医药", "Hengrui"}},
	{Name: "百济神州", Aliases: []string{"百济神州", "BeiGene"}},
	{Name: "药明康德", Aliases: []string{"药明康德", "WuXi AppTec"}},
	{Name: "复星医药", Aliases: []string{"复星医药", "Fosun Pharma"}},
	{Name: "信达生物", Aliases: []string{"信达生物", "Innovent"}},
	{Name: "君实生物", Aliases: []string{"君实生物", "Junshi Biosciences"}},
}

type rosterConfig struct {
	Companies []Company `yaml:"companies"`
}

// LoadCompanies reads the tracked-company roster from a YAML file.
// A missing file falls back to the built-in roster.
func LoadCompanies(path string) ([]Company, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultCompanies, nil
		}
		return nil, err
	}
	defer f.Close()

	var cfg rosterConfig
	dec := yaml.NewDecoder(f)
	if err := dec.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("parsing roster %s: %w", path, err)
	}
	if len(cfg.Companies) == 0 {
		return DefaultCompanies, nil
	}
	return cfg.Companies, nil
}

// Build composes the boolean search expression
// (alias1 OR alias2) (keyword1 OR keyword2).
// Terms containing whitespace are quoted to force phrase matching.
func Build(aliases, keywords []string) string {
	base := "(" + strings.Join(quoteTerms(aliases), " OR ") + ")"
	if len(keywords) == 0 {
		return base
	}
	extra := "(" + strings.Join(quoteTerms(keywords), " OR ") + ")"
	return base + " " + extra
}

func quoteTerms(terms []string) []string {
	out := make([]string, 0, len(terms))
	for _, t := range terms {
		if strings.ContainsAny(t, " \t") {
			t = `"` + t + `"`
		}
		out = append(out, t)
	}
	return out
}

// FeedURL returns the Google News RSS search URL for a query.
// Locale is pinned to the English/US aggregation view, which still surfaces
// articles matched by non-English aliases.
func FeedURL(q string) string {
	return fmt.Sprintf("https://news.google.com/rss/search?q=%s&hl=en-US&gl=US&ceid=US:en", url.QueryEscape(q))
}

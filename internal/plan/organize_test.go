package plan

import (
	"testing"

	"github.com/planweaver/planweaver-backend/internal/types"
)

func browsingCatalog(t *testing.T) []*types.Strategy {
	t.Helper()
	return []*types.Strategy{
		mustStrategy(t, "s1", "protectingWhatMatters", "Emergency Fund", "Keep three to six months of expenses liquid."),
		mustStrategy(t, "s2", "buildNetWorth", "RRSP Contribution", "Contribute to your RRSP."),
		mustStrategy(t, "s3", "buildNetWorth", "TFSA Contribution", "Contribute to your TFSA."),
		mustStrategy(t, "s4", "recommendations", "Annual Review", "Meet annually."),
	}
}

func TestOrganizeSearchFilter(t *testing.T) {
	sections := Organize(browsingCatalog(t), Filter{SearchText: "fund"})
	if len(sections) != 1 {
		t.Fatalf("got %d sections, want 1", len(sections))
	}
	if sections[0].Section != "protectingWhatMatters" {
		t.Fatalf("section = %q, want protectingWhatMatters", sections[0].Section)
	}
	if len(sections[0].Direct) != 1 || sections[0].Direct[0].Title != "Emergency Fund" {
		t.Fatalf("direct = %+v, want only Emergency Fund", sections[0].Direct)
	}
}

func TestOrganizeSearchMatchesContentCaseInsensitive(t *testing.T) {
	sections := Organize(browsingCatalog(t), Filter{SearchText: "LIQUID"})
	if len(sections) != 1 || sections[0].Section != "protectingWhatMatters" {
		t.Fatalf("content search failed: %+v", sections)
	}
}

func TestOrganizeSectionFilter(t *testing.T) {
	cases := []struct {
		name    string
		section string
		want    int
	}{
		{name: "all_keyword", section: "all", want: 3},
		{name: "empty_means_all", section: "", want: 3},
		{name: "exact_section", section: "buildNetWorth", want: 1},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			sections := Organize(browsingCatalog(t), Filter{Section: tc.section})
			if len(sections) != tc.want {
				t.Fatalf("got %d sections, want %d", len(sections), tc.want)
			}
		})
	}
}

func TestOrganizeCanonicalSectionOrder(t *testing.T) {
	all := []*types.Strategy{
		mustStrategy(t, "s1", "leavingALegacy", "Will", "c"),
		mustStrategy(t, "s2", "recommendations", "Review", "c"),
		mustStrategy(t, "s3", "estatePlanning", "Unknown Section", "c"),
		mustStrategy(t, "s4", "", "Loose", "c"),
		mustStrategy(t, "s5", "buildNetWorth", "Save", "c"),
	}
	sections := Organize(all, Filter{})
	got := make([]string, 0, len(sections))
	for _, sec := range sections {
		got = append(got, sec.Section)
	}
	want := []string{"recommendations", "buildNetWorth", "leavingALegacy", "estatePlanning", SectionUncategorized}
	if len(got) != len(want) {
		t.Fatalf("sections = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("sections = %v, want %v", got, want)
		}
	}
}

func TestOrganizeSubsectionWinsOverCategory(t *testing.T) {
	withBoth := mustStrategy(t, "s1", "buildNetWorth", "Both Keys", "c")
	withBoth.Subsection = "Registered Accounts"
	withBoth.Category = "Savings"

	legacy := mustStrategy(t, "s2", "buildNetWorth", "Legacy Row", "c")
	legacy.Category = "Savings"

	direct := mustStrategy(t, "s3", "buildNetWorth", "Direct Row", "c")

	sections := Organize([]*types.Strategy{withBoth, legacy, direct}, Filter{})
	if len(sections) != 1 {
		t.Fatalf("got %d sections, want 1", len(sections))
	}
	sec := sections[0]

	if len(sec.Direct) != 1 || sec.Direct[0].ID != "s3" {
		t.Fatalf("direct = %+v, want only s3", sec.Direct)
	}
	if len(sec.Subsections) != 2 {
		t.Fatalf("subsections = %+v, want Registered Accounts and Savings", sec.Subsections)
	}
	// Subsections sort by key.
	if sec.Subsections[0].Key != "Registered Accounts" || sec.Subsections[1].Key != "Savings" {
		t.Fatalf("subsection keys = [%s %s]", sec.Subsections[0].Key, sec.Subsections[1].Key)
	}
	if sec.Subsections[0].Strategies[0].ID != "s1" {
		t.Fatalf("subsection precedence broken: %+v", sec.Subsections[0].Strategies)
	}
	if sec.Subsections[1].Strategies[0].ID != "s2" {
		t.Fatalf("legacy category stand-in broken: %+v", sec.Subsections[1].Strategies)
	}
}

func TestOrganizeSortsMembersByTitle(t *testing.T) {
	all := []*types.Strategy{
		mustStrategy(t, "s1", "buildNetWorth", "Zebra", "c"),
		mustStrategy(t, "s2", "buildNetWorth", "Alpha", "c"),
		mustStrategy(t, "s3", "buildNetWorth", "Middle", "c"),
	}
	sections := Organize(all, Filter{})
	titles := make([]string, 0, 3)
	for _, s := range sections[0].Direct {
		titles = append(titles, s.Title)
	}
	want := []string{"Alpha", "Middle", "Zebra"}
	for i := range want {
		if titles[i] != want[i] {
			t.Fatalf("titles = %v, want %v", titles, want)
		}
	}
}

func TestSectionTitleHumanizesUnknownKeys(t *testing.T) {
	cases := []struct {
		key  string
		want string
	}{
		{key: "buildNetWorth", want: "BUILD NET WORTH"},
		{key: "recommendations", want: "RECOMMENDATIONS"},
		{key: "estatePlanning", want: "ESTATE PLANNING"},
		{key: "", want: "UNCATEGORIZED"},
	}
	for _, tc := range cases {
		if got := SectionTitle(tc.key); got != tc.want {
			t.Fatalf("SectionTitle(%q) = %q, want %q", tc.key, got, tc.want)
		}
	}
}

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pubmed

import (
	"context"
	"encoding/xml"
	"fmt"
	"net/url"
	"strings"

	"go.uber.org/zap"

	"github.com/pdiddy/litscout/pkg/types"
)

// FetchArticles retrieves full records for a batch of PMIDs via EFetch.
// Requests are chunked to the configured batch size to bound payload size,
// and records are matched back to the requested PMIDs; identifiers PubMed
// does not know are dropped silently. Output preserves input order.
func (c *Client) FetchArticles(ctx context.Context, pmids []string) ([]types.Paper, error) {
	if len(pmids) == 0 {
		return nil, nil
	}

	byPMID := make(map[string]types.Paper, len(pmids))
	for start := 0; start < len(pmids); start += c.Cfg.BatchSize {
		end := start + c.Cfg.BatchSize
		if end > len(pmids) {
			end = len(pmids)
		}

		papers, err := c.fetchBatch(ctx, pmids[start:end])
		if err != nil {
			return nil, err
		}
		for _, p := range papers {
			byPMID[p.PMID] = p
		}
	}

	var out []types.Paper
	for _, pmid := range pmids {
		if p, ok := byPMID[pmid]; ok {
			out = append(out, p)
		}
	}

	c.Log.Debug("fetched articles",
		zap.Int("requested", len(pmids)),
		zap.Int("returned", len(out)),
	)
	return out, nil
}

// fetchBatch issues one EFetch request and normalizes the article XML.
func (c *Client) fetchBatch(ctx context.Context, pmids []string) ([]types.Paper, error) {
	params := url.Values{
		"id":      {strings.Join(pmids, ",")},
		"retmode": {"xml"},
	}

	body, err := c.get(ctx, "efetch.fcgi", params)
	if err != nil {
		return nil, err
	}

	var set pubmedArticleSet
	if err := xml.Unmarshal(body, &set); err != nil {
		return nil, fmt.Errorf("parsing EFetch response: %w", err)
	}

	papers := make([]types.Paper, 0, len(set.Articles))
	for _, a := range set.Articles {
		papers = append(papers, a.toPaper())
	}
	return papers, nil
}

// PubMed EFetch XML structures (db=pubmed, retmode=xml).
type pubmedArticleSet struct {
	Articles []pubmedArticle `xml:"PubmedArticle"`
}

type pubmedArticle struct {
	Citation medlineCitation `xml:"MedlineCitation"`
	Data     pubmedData      `xml:"PubmedData"`
}

type medlineCitation struct {
	PMID    string         `xml:"PMID"`
	Article medlineArticle `xml:"Article"`
}

type medlineArticle struct {
	Title    string          `xml:"ArticleTitle"`
	Journal  medlineJournal  `xml:"Journal"`
	Abstract medlineAbstract `xml:"Abstract"`
	Authors  []medlineAuthor `xml:"AuthorList>Author"`
}

type medlineJournal struct {
	Title   string         `xml:"Title"`
	PubDate medlinePubDate `xml:"JournalIssue>PubDate"`
}

type medlinePubDate struct {
	Year        string `xml:"Year"`
	Month       string `xml:"Month"`
	Day         string `xml:"Day"`
	MedlineDate string `xml:"MedlineDate"`
}

type medlineAbstract struct {
	Sections []abstractSection `xml:"AbstractText"`
}

type abstractSection struct {
	Label string `xml:"Label,attr"`
	Text  string `xml:",chardata"`
}

type medlineAuthor struct {
	LastName       string `xml:"LastName"`
	Initials       string `xml:"Initials"`
	CollectiveName string `xml:"CollectiveName"`
}

type pubmedData struct {
	ArticleIDs []articleID `xml:"ArticleIdList>ArticleId"`
	References []reference `xml:"ReferenceList>Reference"`
}

type articleID struct {
	IDType string `xml:"IdType,attr"`
	Value  string `xml:",chardata"`
}

type reference struct {
	ArticleIDs []articleID `xml:"ArticleIdList>ArticleId"`
}

// toPaper normalizes one PubmedArticle into a Paper record.
func (a pubmedArticle) toPaper() types.Paper {
	p := types.Paper{
		PMID:     a.Citation.PMID,
		Title:    strings.TrimSpace(a.Citation.Article.Title),
		Journal:  strings.TrimSpace(a.Citation.Article.Journal.Title),
		Abstract: joinAbstract(a.Citation.Article.Abstract.Sections),
		Authors:  formatAuthors(a.Citation.Article.Authors),
		URL:      articleURLBase + a.Citation.PMID + "/",
	}

	p.Year, p.PubDate = formatPubDate(a.Citation.Article.Journal.PubDate)

	for _, id := range a.Data.ArticleIDs {
		if id.IDType == "doi" {
			p.DOI = strings.TrimSpace(id.Value)
			break
		}
	}

	for _, ref := range a.Data.References {
		for _, id := range ref.ArticleIDs {
			if id.IDType == "pubmed" && id.Value != "" {
				p.References = append(p.References, strings.TrimSpace(id.Value))
			}
		}
	}

	return p
}

// joinAbstract concatenates labelled abstract sections. A record with no
// abstract still carries a non-empty placeholder.
func joinAbstract(sections []abstractSection) string {
	var parts []string
	for _, s := range sections {
		text := strings.TrimSpace(s.Text)
		if text == "" {
			continue
		}
		if s.Label != "" {
			text = s.Label + ": " + text
		}
		parts = append(parts, text)
	}
	if len(parts) == 0 {
		return types.NoAbstract
	}
	return strings.Join(parts, " ")
}

// formatAuthors builds the display string: up to three "LastName Initials"
// entries, then "et al.".
func formatAuthors(authors []medlineAuthor) string {
	var names []string
	for _, a := range authors {
		switch {
		case a.CollectiveName != "":
			names = append(names, strings.TrimSpace(a.CollectiveName))
		case a.LastName != "":
			name := a.LastName
			if a.Initials != "" {
				name += " " + a.Initials
			}
			names = append(names, name)
		}
	}

	switch {
	case len(names) == 0:
		return ""
	case len(names) <= 3:
		return strings.Join(names, ", ")
	default:
		return strings.Join(names[:3], ", ") + ", et al."
	}
}

// formatPubDate returns the year and the full display date. MedlineDate is
// used verbatim when the structured fields are absent.
func formatPubDate(d medlinePubDate) (year, full string) {
	if d.Year == "" && d.MedlineDate != "" {
		fields := strings.Fields(d.MedlineDate)
		if len(fields) > 0 {
			year = fields[0]
		}
		return year, d.MedlineDate
	}

	year = d.Year
	parts := []string{}
	if d.Year != "" {
		parts = append(parts, d.Year)
	}
	if d.Month != "" {
		parts = append(parts, d.Month)
	}
	if d.Day != "" {
		parts = append(parts, d.Day)
	}
	return year, strings.Join(parts, " ")
}

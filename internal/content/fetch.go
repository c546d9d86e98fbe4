package content

import (
	"context"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"sync"

	"github.com/PuerkitoBio/goquery"

	"ummabot/pkg/logx"
)

// Dedup is the posted-links log consulted before a dua is sent. Links are
// recorded before delivery so a failed send never causes a repeat.
type Dedup interface {
	PostedDuas(ctx context.Context) (map[string]struct{}, error)
	RecordPostedDua(ctx context.Context, link string) error
}

// Fetcher scrapes the content site and produces canonical items.
type Fetcher struct {
	base     string
	quran    string
	duaPages int
	client   *http.Client
	log      logx.Logger
}

// Config for the fetcher. Client is injectable; production wires an
// SSRF-guarded client, tests pass a plain one.
type FetcherConfig struct {
	BaseURL  string
	QuranURL string
	DuaPages int
	Client   *http.Client
}

func NewFetcher(cfg FetcherConfig, log logx.Logger) *Fetcher {
	if cfg.DuaPages <= 0 {
		cfg.DuaPages = 13
	}
	if cfg.Client == nil {
		cfg.Client = http.DefaultClient
	}
	return &Fetcher{
		base:     strings.TrimRight(cfg.BaseURL, "/"),
		quran:    strings.TrimRight(cfg.QuranURL, "/"),
		duaPages: cfg.DuaPages,
		client:   cfg.Client,
		log:      log,
	}
}

// Fetch produces today's item for the category. For duas the posted log is
// consulted and the chosen link is recorded before parsing begins.
func (f *Fetcher) Fetch(ctx context.Context, cat Category, posted Dedup) (Item, error) {
	if cat == Dua {
		return f.fetchDua(ctx, posted)
	}
	url, err := f.dailyLink(ctx, cat)
	if err != nil {
		return Item{}, err
	}
	return f.document(ctx, url, cat)
}

// dailyLink finds today's article link on the front page. The ayah and
// hadith teasers are distinguished by the "aya" path fragment.
func (f *Fetcher) dailyLink(ctx context.Context, cat Category) (string, error) {
	doc, err := f.get(ctx, f.base)
	if err != nil {
		return "", err
	}
	var found string
	doc.Find(".read-more a").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		href, ok := s.Attr("href")
		if !ok {
			return true
		}
		isAyah := strings.Contains(href, "aya")
		if (cat == Ayah) == isAyah {
			found = href
			return false
		}
		return true
	})
	if found == "" {
		return "", fmt.Errorf("content: no daily %s link on front page", cat)
	}
	if !strings.HasPrefix(found, "http") {
		found = f.base + found
	}
	return found, nil
}

// document fetches an article page and parses it for the category.
func (f *Fetcher) document(ctx context.Context, url string, cat Category) (Item, error) {
	doc, err := f.get(ctx, url)
	if err != nil {
		return Item{}, err
	}
	// Footnote anchors are noise except the Qur'an citation inside an ayah.
	doc.Find("article p a").Each(func(_ int, s *goquery.Selection) {
		if strings.Contains(strings.ToLower(s.Text()), quranMarker) {
			return
		}
		s.Remove()
	})
	var item Item
	switch cat {
	case Ayah:
		item, err = f.parseAyah(ctx, doc)
	case Hadith:
		item, err = f.parseHadith(doc)
	case Dua:
		item, err = f.parseDua(doc)
	}
	if err != nil {
		return Item{}, fmt.Errorf("content: parse %s %s: %w", cat, url, err)
	}
	item.URL = url
	return item, nil
}

// ayahMarker introduces the locator inside the article body.
const ayahMarker = "Св. Коран, "

func (f *Fetcher) parseAyah(ctx context.Context, doc *goquery.Document) (Item, error) {
	body := articleText(doc)
	idx := strings.Index(body, ayahMarker)
	if idx < 0 {
		return Item{}, fmt.Errorf("%w: no locator marker", ErrMismatch)
	}
	rest := body[idx+len(ayahMarker):]
	end := strings.IndexByte(rest, ')')
	if end < 0 {
		return Item{}, fmt.Errorf("%w: unterminated locator", ErrMismatch)
	}
	locator := strings.TrimSpace(rest[:end])
	// Keep the body up to the closing paren, plus the trailing period when
	// the sentence carries one.
	cut := idx + len(ayahMarker) + end + 1
	if cut < len(body) && body[cut] == '.' {
		cut++
	}
	body = body[:cut]

	verses, err := f.arabicVerses(ctx, locator)
	if err != nil {
		return Item{}, err
	}
	return Item{Locator: locator, Body: verses + "\n" + body}, nil
}

// articleText joins all article paragraphs into one body. Some pages carry
// the text in a bare div instead of paragraph markup.
func articleText(doc *goquery.Document) string {
	var parts []string
	doc.Find("article p").Each(func(_ int, s *goquery.Selection) {
		if text := strings.TrimSpace(s.Text()); text != "" {
			parts = append(parts, text)
		}
	})
	body := strings.Join(parts, " ")
	if body == "" {
		body = strings.TrimSpace(doc.Find("article div").First().Text())
	}
	return body
}

// arabicVerses resolves each verse of the locator against the Qur'an site
// and concatenates the original-script texts. A locator like "3:7, 8" fans
// out to lookups "3:7" and "3:8".
func (f *Fetcher) arabicVerses(ctx context.Context, locator string) (string, error) {
	parts := strings.Split(locator, ", ")
	if len(parts) == 0 {
		return "", fmt.Errorf("%w: empty locator", ErrMismatch)
	}
	surah, _, ok := strings.Cut(parts[0], ":")
	if !ok {
		return "", fmt.Errorf("%w: locator %q", ErrMismatch, locator)
	}
	var b strings.Builder
	for i, p := range parts {
		verse := p
		if i > 0 {
			verse = surah + ":" + p
		}
		text, err := f.arabicVerse(ctx, verse)
		if err != nil {
			return "", err
		}
		b.WriteString(text)
		b.WriteString("\n")
	}
	return b.String(), nil
}

func (f *Fetcher) arabicVerse(ctx context.Context, verse string) (string, error) {
	doc, err := f.get(ctx, f.quran+"/"+verse)
	if err != nil {
		return "", err
	}
	text := strings.TrimSpace(doc.Find("span.original-text.original-text-rtl").First().Text())
	if text == "" {
		return "", fmt.Errorf("%w: no arabic text for %s", ErrMismatch, verse)
	}
	return text, nil
}

func (f *Fetcher) parseHadith(doc *goquery.Document) (Item, error) {
	paras := doc.Find("article p")
	body := strings.TrimSpace(paras.First().Text())
	citation := NormalizeCitation(paras.Last().Text())
	if citation == "" {
		return Item{}, ErrNoCitation
	}
	if body == "" {
		return Item{}, fmt.Errorf("%w: empty hadith body", ErrMismatch)
	}
	return Item{Body: body, Source: citation}, nil
}

// duaFooter paragraphs are site navigation, not content.
const duaFooter = "Смотрите другие дуа на разные случаи"

func (f *Fetcher) parseDua(doc *goquery.Document) (Item, error) {
	title := strings.TrimSpace(doc.Find(".upage__title").First().Text())
	if title == "" {
		return Item{}, fmt.Errorf("%w: no dua title", ErrMismatch)
	}
	doc.Find("article div").Remove()
	var parts []string
	doc.Find("article p").Each(func(_ int, s *goquery.Selection) {
		text := strings.TrimSpace(s.Text())
		if strings.Contains(text, duaFooter) {
			text = ""
		}
		parts = append(parts, text)
	})
	body := strings.TrimSpace(expandAbbrevs(strings.Join(parts, "\n")))
	if body == "" {
		return Item{}, fmt.Errorf("%w: empty dua body", ErrMismatch)
	}
	return Item{Body: body, Source: title}, nil
}

// fetchDua picks a not-yet-posted dua, records it, then parses it.
func (f *Fetcher) fetchDua(ctx context.Context, posted Dedup) (Item, error) {
	links, err := f.duaLinks(ctx)
	if err != nil {
		return Item{}, err
	}
	seen, err := posted.PostedDuas(ctx)
	if err != nil {
		return Item{}, err
	}
	var pick string
	for _, link := range links {
		if _, ok := seen[link]; !ok {
			pick = link
			break
		}
	}
	if pick == "" {
		return Item{}, fmt.Errorf("%w: all %d dua links posted", ErrExhausted, len(links))
	}
	if err := posted.RecordPostedDua(ctx, pick); err != nil {
		return Item{}, err
	}
	return f.document(ctx, pick, Dua)
}

// duaLinks collects every dua article link across the catalog pages. Pages
// are fetched concurrently; a single page failure fails the run.
func (f *Fetcher) duaLinks(ctx context.Context) ([]string, error) {
	type pageResult struct {
		page  int
		links []string
		err   error
	}
	results := make(chan pageResult, f.duaPages)
	var wg sync.WaitGroup
	for page := 1; page <= f.duaPages; page++ {
		wg.Add(1)
		go func(page int) {
			defer wg.Done()
			links, err := f.duaPage(ctx, page)
			results <- pageResult{page: page, links: links, err: err}
		}(page)
	}
	wg.Wait()
	close(results)

	byPage := make(map[int][]string, f.duaPages)
	for r := range results {
		if r.err != nil {
			return nil, fmt.Errorf("content: dua page %d: %w", r.page, r.err)
		}
		byPage[r.page] = r.links
	}
	pages := make([]int, 0, len(byPage))
	for p := range byPage {
		pages = append(pages, p)
	}
	sort.Ints(pages)
	var all []string
	for _, p := range pages {
		all = append(all, byPage[p]...)
	}
	if len(all) == 0 {
		return nil, fmt.Errorf("content: dua catalog empty")
	}
	return all, nil
}

func (f *Fetcher) duaPage(ctx context.Context, page int) ([]string, error) {
	url := fmt.Sprintf("%s/dua-musulmanskie-molitvy/page/%d", f.base, page)
	doc, err := f.get(ctx, url)
	if err != nil {
		return nil, err
	}
	var links []string
	doc.Find("article div h2 a").Each(func(_ int, s *goquery.Selection) {
		if href, ok := s.Attr("href"); ok {
			if !strings.HasPrefix(href, "http") {
				href = f.base + href
			}
			links = append(links, href)
		}
	})
	return links, nil
}

func (f *Fetcher) get(ctx context.Context, url string) (*goquery.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("content: get %s: %w", url, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("content: get %s: status %d", url, resp.StatusCode)
	}
	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("content: parse %s: %w", url, err)
	}
	return doc, nil
}

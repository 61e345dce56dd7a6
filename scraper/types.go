package scraper

// MetaTags holds the meta tags relevant to analysis. All fields are optional;
// an absent tag is the empty string.
type MetaTags struct {
	Description        string `json:"description,omitempty"`
	Keywords           string `json:"keywords,omitempty"`
	Author             string `json:"author,omitempty"`
	Robots             string `json:"robots,omitempty"`
	Viewport           string `json:"viewport,omitempty"`
	OGTitle            string `json:"ogTitle,omitempty"`
	OGDescription      string `json:"ogDescription,omitempty"`
	OGImage            string `json:"ogImage,omitempty"`
	TwitterTitle       string `json:"twitterTitle,omitempty"`
	TwitterDescription string `json:"twitterDescription,omitempty"`
	TwitterImage       string `json:"twitterImage,omitempty"`
}

// Headings holds heading text by level, in source order. Duplicates are kept
// because repeated headings are an SEO signal of their own.
type Headings struct {
	H1 []string `json:"h1"`
	H2 []string `json:"h2"`
	H3 []string `json:"h3"`
}

// Links partitions hyperlinks by whether their hostname matches the page's own.
// Both lists are deduplicated, absolute URLs.
type Links struct {
	Internal []string `json:"internal"`
	External []string `json:"external"`
}

// Image is a single <img> occurrence with its resolved source URL.
type Image struct {
	Src   string `json:"src"`
	Alt   string `json:"alt"`
	Title string `json:"title,omitempty"`
}

// Content holds the visible text of the page.
type Content struct {
	TextContent string   `json:"textContent"`
	WordCount   int      `json:"wordCount"`
	Paragraphs  []string `json:"paragraphs"`
}

// TechnicalInfo carries transport-level facts captured during the fetch.
type TechnicalInfo struct {
	HasSSL        bool              `json:"hasSSL"`
	ResponseTime  int64             `json:"responseTime"` // milliseconds
	StatusCode    int               `json:"statusCode"`
	ContentType   string            `json:"contentType"`
	Charset       string            `json:"charset"`
	PageSize      int               `json:"pageSize"` // bytes
	ServerHeaders map[string]string `json:"serverHeaders"`
}

// Document is the structured view of a fetched page. It is built once by
// Extract and never mutated afterwards. All string fields are entity-decoded
// and whitespace-collapsed; all URL fields are absolute.
type Document struct {
	Title     string        `json:"title"`
	Meta      MetaTags      `json:"metaTags"`
	Headings  Headings      `json:"headings"`
	Links     Links         `json:"links"`
	Images    []Image       `json:"images"`
	Scripts   []string      `json:"scripts"`
	Styles    []string      `json:"styles"`
	Content   Content       `json:"content"`
	Technical TechnicalInfo `json:"technicalInfo"`
}

// Page is the raw result of fetching a URL, before extraction.
type Page struct {
	URL       string
	HTML      string
	Technical TechnicalInfo
}

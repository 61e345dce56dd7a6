package detect

// pattern is one catalog entry: a technology identified by substrings in the
// HTML body, in external script URLs, or in a response header. Catalog order
// matters only for output ordering; every matching entry is reported.
type pattern struct {
	name        string
	category    string
	description string
	html        []string // lowercase substrings matched against the body
	scripts     []string // lowercase substrings matched against script URLs
	header      string   // lowercase header name, matched by presence or value
	headerValue string   // lowercase substring the header value must contain ("" = any)
}

// catalog is the built-in technology signature table, read-only after init.
var catalog = []pattern{
	// CMS and site builders
	{name: "WordPress", category: "CMS", description: "PHP content management system", html: []string{"wp-content", "wp-includes", "wp-json"}},
	{name: "Shopify", category: "E-commerce", description: "Hosted e-commerce platform", html: []string{"cdn.shopify.com", "shopify.theme"}},
	{name: "Wix", category: "Website Builder", description: "Hosted website builder", html: []string{"wix.com", "wixstatic.com"}, header: "x-wix-request-id"},
	{name: "Squarespace", category: "Website Builder", description: "Hosted website builder", html: []string{"squarespace.com", "squarespace-cdn"}},
	{name: "Drupal", category: "CMS", description: "PHP content management system", html: []string{"drupal-link", "/sites/default/files"}, header: "x-generator", headerValue: "drupal"},
	{name: "Joomla", category: "CMS", description: "PHP content management system", html: []string{"/media/jui/", "joomla"}},
	{name: "Ghost", category: "CMS", description: "Publishing platform", html: []string{"ghost-sdk", "content=\"ghost"}},
	{name: "WooCommerce", category: "E-commerce", description: "WordPress e-commerce plugin", html: []string{"woocommerce"}},

	// JavaScript frameworks and libraries
	{name: "React", category: "JavaScript Framework", description: "UI library", html: []string{"data-reactroot", "data-reactid"}, scripts: []string{"react.", "react.production", "react-dom"}},
	{name: "Next.js", category: "JavaScript Framework", description: "React framework", html: []string{"__next_data__", "/_next/static"}},
	{name: "Vue.js", category: "JavaScript Framework", description: "Progressive UI framework", html: []string{"data-v-app", "__vue__"}, scripts: []string{"vue.js", "vue.min.js", "vue.runtime"}},
	{name: "Nuxt.js", category: "JavaScript Framework", description: "Vue framework", html: []string{"__nuxt", "/_nuxt/"}},
	{name: "Angular", category: "JavaScript Framework", description: "Application framework", html: []string{"ng-version"}},
	{name: "Svelte", category: "JavaScript Framework", description: "Compiled UI framework", html: []string{"svelte-"}},
	{name: "jQuery", category: "JavaScript Library", description: "DOM utility library", scripts: []string{"jquery"}},

	// Analytics and marketing
	{name: "Google Analytics", category: "Analytics", description: "Traffic analytics", html: []string{"google-analytics.com", "gtag("}, scripts: []string{"google-analytics.com", "googletagmanager.com/gtag"}},
	{name: "Google Tag Manager", category: "Analytics", description: "Tag management", html: []string{"googletagmanager.com/gtm"}, scripts: []string{"googletagmanager.com/gtm"}},
	{name: "Facebook Pixel", category: "Analytics", description: "Conversion tracking", html: []string{"connect.facebook.net", "fbq("}},
	{name: "Hotjar", category: "Analytics", description: "Behavior analytics", html: []string{"hotjar.com", "hjsv"}, scripts: []string{"hotjar"}},
	{name: "Matomo", category: "Analytics", description: "Self-hosted analytics", scripts: []string{"matomo.js", "piwik.js"}},
	{name: "Plausible", category: "Analytics", description: "Privacy-friendly analytics", scripts: []string{"plausible.io"}},

	// CSS frameworks
	{name: "Bootstrap", category: "CSS Framework", description: "Component framework", html: []string{"bootstrap.min.css", "bootstrap.css"}, scripts: []string{"bootstrap.min.js", "bootstrap.bundle"}},
	{name: "Tailwind CSS", category: "CSS Framework", description: "Utility-first CSS", html: []string{"tailwindcss", "tailwind.min.css"}},
	{name: "Bulma", category: "CSS Framework", description: "Flexbox CSS framework", html: []string{"bulma.min.css", "bulma.css"}},
	{name: "Font Awesome", category: "Icon Library", description: "Icon toolkit", html: []string{"font-awesome", "fontawesome"}},
}

// serverSignature maps a substring of the server response header to a web
// server or CDN product.
type serverSignature struct {
	substring string
	name      string
	category  string
}

var serverSignatures = []serverSignature{
	{substring: "cloudflare", name: "Cloudflare", category: "CDN"},
	{substring: "nginx", name: "nginx", category: "Web Server"},
	{substring: "apache", name: "Apache", category: "Web Server"},
	{substring: "litespeed", name: "LiteSpeed", category: "Web Server"},
	{substring: "microsoft-iis", name: "Microsoft IIS", category: "Web Server"},
	{substring: "caddy", name: "Caddy", category: "Web Server"},
	{substring: "openresty", name: "OpenResty", category: "Web Server"},
	{substring: "gws", name: "Google Web Server", category: "Web Server"},
}

// hostingPattern maps a hostname or header substring to a hosting provider
// display name. The table is scanned in order; the first match wins.
type hostingPattern struct {
	substring string // matched against hostname and all header values, lowercase
	header    string // when set, matched against this header's presence instead
	provider  string
}

var hostingPatterns = []hostingPattern{
	{substring: "cloudfront.net", provider: "Amazon CloudFront"},
	{substring: "amazonaws.com", provider: "Amazon Web Services"},
	{header: "x-amz-request-id", provider: "Amazon Web Services"},
	{substring: "googleusercontent.com", provider: "Google Cloud Platform"},
	{substring: "appspot.com", provider: "Google Cloud Platform"},
	{substring: "azurewebsites.net", provider: "Microsoft Azure"},
	{substring: "windows.net", provider: "Microsoft Azure"},
	{substring: "herokuapp.com", provider: "Heroku"},
	{substring: "netlify.app", provider: "Netlify"},
	{header: "x-nf-request-id", provider: "Netlify"},
	{substring: "vercel.app", provider: "Vercel"},
	{header: "x-vercel-id", provider: "Vercel"},
	{substring: "github.io", provider: "GitHub Pages"},
	{header: "x-github-request-id", provider: "GitHub Pages"},
	{substring: "gitlab.io", provider: "GitLab Pages"},
	{substring: "pages.dev", provider: "Cloudflare Pages"},
	{header: "cf-ray", provider: "Cloudflare"},
	{substring: "fastly", provider: "Fastly"},
	{header: "x-served-by", provider: "Fastly"},
	{substring: "digitalocean", provider: "DigitalOcean"},
	{substring: "linode", provider: "Linode"},
	{substring: "hetzner", provider: "Hetzner"},
	{substring: "ovh.net", provider: "OVHcloud"},
}

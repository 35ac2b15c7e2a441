package api

// WebsiteTemplate is one entry of the browsable template gallery. The gallery
// is a static catalog compiled into the binary; template assets themselves
// live on the CDN behind PreviewURL.
type WebsiteTemplate struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Category   string `json:"category"`
	PreviewURL string `json:"preview_url"`
	ThumbURL   string `json:"thumb_url"`
}

var templateCatalog = []WebsiteTemplate{
	{ID: "tpl-biz-01", Name: "Corporate One", Category: "business", PreviewURL: "https://templates.example.com/preview/tpl-biz-01", ThumbURL: "https://templates.example.com/thumb/tpl-biz-01.png"},
	{ID: "tpl-biz-02", Name: "Consulting Pro", Category: "business", PreviewURL: "https://templates.example.com/preview/tpl-biz-02", ThumbURL: "https://templates.example.com/thumb/tpl-biz-02.png"},
	{ID: "tpl-shop-01", Name: "Storefront Classic", Category: "ecommerce", PreviewURL: "https://templates.example.com/preview/tpl-shop-01", ThumbURL: "https://templates.example.com/thumb/tpl-shop-01.png"},
	{ID: "tpl-shop-02", Name: "Boutique", Category: "ecommerce", PreviewURL: "https://templates.example.com/preview/tpl-shop-02", ThumbURL: "https://templates.example.com/thumb/tpl-shop-02.png"},
	{ID: "tpl-port-01", Name: "Folio Minimal", Category: "portfolio", PreviewURL: "https://templates.example.com/preview/tpl-port-01", ThumbURL: "https://templates.example.com/thumb/tpl-port-01.png"},
	{ID: "tpl-rest-01", Name: "Bistro", Category: "restaurant", PreviewURL: "https://templates.example.com/preview/tpl-rest-01", ThumbURL: "https://templates.example.com/thumb/tpl-rest-01.png"},
	{ID: "tpl-edu-01", Name: "Academy", Category: "education", PreviewURL: "https://templates.example.com/preview/tpl-edu-01", ThumbURL: "https://templates.example.com/thumb/tpl-edu-01.png"},
	{ID: "tpl-blog-01", Name: "Journal", Category: "blog", PreviewURL: "https://templates.example.com/preview/tpl-blog-01", ThumbURL: "https://templates.example.com/thumb/tpl-blog-01.png"},
}

// Templates returns the catalog, optionally filtered by category.
func Templates(category string) []WebsiteTemplate {
	if category == "" {
		return templateCatalog
	}
	out := make([]WebsiteTemplate, 0, len(templateCatalog))
	for _, t := range templateCatalog {
		if t.Category == category {
			out = append(out, t)
		}
	}
	return out
}

// TemplateByID looks up one catalog entry.
func TemplateByID(id string) (WebsiteTemplate, bool) {
	for _, t := range templateCatalog {
		if t.ID == id {
			return t, true
		}
	}
	return WebsiteTemplate{}, false
}

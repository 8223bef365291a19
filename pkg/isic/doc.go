// Package isic provides a client for the ISIC Archive v2 images API.
//
// The search endpoint is paginated with an opaque cursor: the first page URL
// is built from a Query, every following page URL is the "next" value of the
// previous page and is requested verbatim.
//
//	client := isic.NewClient(isic.BaseURL, 60*time.Second, log)
//	page, err := client.Search(ctx, client.SearchURL(isic.Query{
//		Diagnosis: "melanoma",
//		PageSize:  50,
//	}))
//
// Non-2xx responses come back as *errors.Error values typed by status code.
// Responses that are not a valid search page are parsing errors.
package isic

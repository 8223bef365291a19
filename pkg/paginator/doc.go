// Package paginator walks the ISIC Archive image search and hands every
// record to an image fetcher.
//
// The first page is requested with limit, offset and a diagnosis query.
// Every later page is requested through the server's "next" cursor exactly
// as returned. The walk stops once the optional limit is reached, a page
// comes back empty, or no cursor is left.
//
//	p := paginator.NewFromConfig(cfg, log)
//	imageNum, err := p.Fetch(ctx, paginator.Request{
//		OutputDir: "./images",
//		Diagnosis: "melanoma",
//		Limit:     paginator.Limit(100),
//	})
//
// Fetch returns the offset plus the number of records processed. Any error
// aborts the run; images already written stay on disk.
package paginator

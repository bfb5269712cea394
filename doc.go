// Package chatads provides a Go client SDK for the ChatAds message analysis
// API, which matches affiliate offers to a chat message.
//
// The client validates and normalizes the request payload, sends it as JSON
// over HTTPS and retries transient failures with exponential backoff.
//
// Basic usage:
//
//	client, err := chatads.New("your-api-key", "https://api.getchatads.com",
//	    chatads.WithMaxRetries(2),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	resp, err := client.AnalyzeMessage(ctx, "I need a CRM for my startup", map[string]any{
//	    "country": "US",
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	for _, offer := range resp.Data.Offers {
//	    fmt.Println(offer.LinkText, offer.URL)
//	}
//
// Errors returned by the server are [*APIError]; failures produced by the
// client itself are [*SDKError]. Both match the sentinel errors in this
// package with errors.Is.
package chatads

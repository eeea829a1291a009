// Package phpipam provides a Go client for the phpIPAM IP address
// management platform.
//
// phpIPAM exposes a large, open-ended set of API "controllers" (devices,
// subnets, addresses, vlans, racks, ...). Rather than hard-coding each
// one, the client models them as a lazily built tree: Controller descends
// into nested paths and dispatches any HTTP verb against them.
//
// # API Access
//
// An API app must be defined in the phpIPAM Administration/API panel.
// Requests go to:
//
//	{host}/api/{app}/{controller}/...
//
// authenticated with a token obtained from POST /user/ with basic auth.
//
// # Basic Usage
//
//	client, err := phpipam.New(ctx, "https://ipam.example.com", "user", "password", "myapp")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	// Raw controller access: status checking is up to the caller.
//	res, err := client.Controller("devices").Get(ctx, "1", nil)
//
//	// Nested controllers descend path segments.
//	locations := client.Controller("tools").Child("locations")
//
//	// Catalogs index a collection locally for existence checks.
//	subnets := client.Controller("subnets")
//	if err := subnets.GetCatalog(ctx, phpipam.KeyField("id")); err != nil {
//	    log.Fatal(err)
//	}
//	rec, ok := subnets.Lookup("12")
//
// # Search
//
// The web UI's search tool has no REST equivalent; Search drives it by
// reproducing the UI's cookie protocol and scraping the rendered HTML:
//
//	found, err := client.Search(ctx, "172.30.1.0", nil)
//	for _, id := range found[phpipam.CategorySubnets].IDs {
//	    ...
//	}
//
// # Concurrency
//
// A Client issues requests synchronously and owns mutable state without
// synchronization. Do not share one across goroutines.
package phpipam

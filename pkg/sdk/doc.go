// Package prethrift provides an embedded Go client for the prethrift
// garment search and preference-learning engine, backed by Redis.
//
// The client wires the ranking engine, the ontology classifier, and the
// feedback ledger directly over a Redis connection. No HTTP server is
// involved.
//
//	client, _ := prethrift.New(ctx,
//	    prethrift.WithRedis("localhost:6379", ""),
//	    prethrift.WithEmbedder(myEmbedder),
//	)
//	defer client.Close()
//
//	client.Garments().Upsert(ctx, prethrift.GarmentInput{
//	    ID:          "g1",
//	    Title:       "Floral summer dress",
//	    Description: "Vintage floral midi dress from the 1970s",
//	})
//	resp, _ := client.Search(ctx, "vintage floral dress", prethrift.ForUser("u1"))
//	client.RecordFeedback(ctx, prethrift.Feedback{
//	    UserID: "u1", GarmentID: "g1", Action: prethrift.ActionLike,
//	})
//
// Without an Embedder the engine still ranks on attribute overlap and
// learned preference weights; text similarity and profile centroids stay
// at zero. Without an Extractor, query attributes come out empty and
// ranking degrades to text similarity alone.
package prethrift

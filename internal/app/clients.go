package app

import (
	"github.com/playfinity/playfinity-backend/internal/clients/azure"
	"github.com/playfinity/playfinity-backend/internal/clients/gcp"
	"github.com/playfinity/playfinity-backend/internal/clients/openai"
	rediscache "github.com/playfinity/playfinity-backend/internal/clients/redis"
	"github.com/playfinity/playfinity-backend/internal/pkg/logger"
)

// Clients holds every external collaborator. Each one is optional: a
// failed init leaves the field nil and the feature disabled, it never
// stops the server from coming up.
type Clients struct {
	Store   gcp.DocumentStore
	Bucket  gcp.BucketService
	Tagger  gcp.Tagger
	Model   openai.Client
	Caption openai.Caption
	Reader  azure.ReadClient
	Hot     rediscache.EntryCache
}

func wireClients(log *logger.Logger) Clients {
	var cl Clients

	if store, err := gcp.NewDocumentStore(log); err != nil {
		log.Warn("Document store unavailable", "error", err.Error())
	} else {
		cl.Store = store
	}

	if bucket, err := gcp.NewBucketService(log); err != nil {
		log.Warn("Bucket service unavailable", "error", err.Error())
	} else {
		cl.Bucket = bucket
	}

	if tagger, err := gcp.NewTagger(log); err != nil {
		log.Warn("Vision tagger unavailable", "error", err.Error())
	} else {
		cl.Tagger = tagger
	}

	if model, err := openai.NewClient(log); err != nil {
		log.Warn("Model client unavailable", "error", err.Error())
	} else {
		cl.Model = model
		if caption, err := openai.NewCaption(log, model); err != nil {
			log.Warn("Caption client unavailable", "error", err.Error())
		} else {
			cl.Caption = caption
		}
	}

	if reader, err := azure.NewReadClient(log); err != nil {
		log.Warn("Text recognition unavailable", "error", err.Error())
	} else {
		cl.Reader = reader
	}

	if hot, err := rediscache.NewEntryCache(log); err != nil {
		log.Warn("Hot entry cache unavailable", "error", err.Error())
	} else {
		cl.Hot = hot
	}

	return cl
}

func (cl Clients) close() {
	if cl.Hot != nil {
		_ = cl.Hot.Close()
	}
	if cl.Tagger != nil {
		_ = cl.Tagger.Close()
	}
	if cl.Bucket != nil {
		_ = cl.Bucket.Close()
	}
	if cl.Store != nil {
		_ = cl.Store.Close()
	}
}

package jobqueue

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2/log"
)

// ObjectDeleter removes bucket objects and maps public URLs back to the keys
// an owner stored.
type ObjectDeleter interface {
	Delete(ctx context.Context, key string) error
	OwnedKeyForURL(url, ownerID string) (string, bool)
}

// Enqueuer is the part of Queue a Cleaner needs.
type Enqueuer interface {
	EnqueueJob(ctx context.Context, jobType JobType, payload map[string]interface{}) (*Job, error)
}

// NewObjectDeleteHandler runs object_delete jobs against store.
func NewObjectDeleteHandler(store ObjectDeleter) Handler {
	return func(ctx context.Context, job *Job) error {
		payload, err := ObjectDeletePayloadFromMap(job.Payload)
		if err != nil {
			return err
		}
		if payload.ObjectKey == "" {
			return errors.New("object_delete job without object key")
		}
		if err := store.Delete(ctx, payload.ObjectKey); err != nil {
			return err
		}
		log.Infof("[JobQueue] Deleted unreferenced object %s", payload.ObjectKey)
		return nil
	}
}

// Cleaner turns URLs an application dropped into object_delete jobs. URLs
// outside the owner's bucket folders are ignored.
type Cleaner struct {
	queue Enqueuer
	store ObjectDeleter
}

func NewCleaner(queue Enqueuer, store ObjectDeleter) *Cleaner {
	return &Cleaner{queue: queue, store: store}
}

// Discard enqueues a delete for every url stored under ownerID. Enqueue
// failures are logged; the object is then left behind.
func (c *Cleaner) Discard(ctx context.Context, ownerID, appID string, urls ...string) {
	seen := make(map[string]struct{}, len(urls))
	for _, url := range urls {
		key, ok := c.store.OwnedKeyForURL(url, ownerID)
		if !ok {
			if url != "" {
				log.Debugf("[JobQueue] not deleting %s: not stored by %s", url, ownerID)
			}
			continue
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}

		payload := ObjectDeletePayload{ObjectKey: key, SourceURL: url, OwnerID: ownerID, AppID: appID}
		if _, err := c.queue.EnqueueJob(ctx, JobTypeObjectDelete, payload.ToMap()); err != nil {
			log.Warnf("[JobQueue] could not schedule delete of %s: %v", key, err)
		}
	}
}

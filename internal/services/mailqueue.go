package services

import (
	"log"
	"sync"
)

// MailQueue decouples email dispatch from the request path. Sends are
// best-effort: a full queue or a delivery failure is logged and never
// surfaces to the caller.
type MailQueue struct {
	mailer Mailer
	tasks  chan mailTask
	wg     sync.WaitGroup
	once   sync.Once
}

type mailTask struct {
	name string
	run  func() error
}

// NewMailQueue constructs a MailQueue with the given buffer size and starts
// its worker.
func NewMailQueue(mailer Mailer, size int) *MailQueue {
	if size <= 0 {
		size = 64
	}
	q := &MailQueue{
		mailer: mailer,
		tasks:  make(chan mailTask, size),
	}
	q.wg.Add(1)
	go q.worker()
	return q
}

// EnqueuePurchase queues a purchase confirmation email.
func (q *MailQueue) EnqueuePurchase(data PurchaseEmail) {
	q.enqueue(mailTask{
		name: "purchase confirmation to " + data.Email,
		run:  func() error { return q.mailer.SendPurchaseEmail(data) },
	})
}

// EnqueueOTP queues a one-time code email.
func (q *MailQueue) EnqueueOTP(to, code string) {
	q.enqueue(mailTask{
		name: "otp to " + to,
		run:  func() error { return q.mailer.SendOTPEmail(to, code) },
	})
}

// Close stops accepting tasks and waits for in-flight sends to finish.
func (q *MailQueue) Close() {
	q.once.Do(func() { close(q.tasks) })
	q.wg.Wait()
}

func (q *MailQueue) enqueue(task mailTask) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("[Mail] Dropped %s: queue closed", task.name)
		}
	}()

	select {
	case q.tasks <- task:
	default:
		log.Printf("[Mail] Dropped %s: queue full", task.name)
	}
}

func (q *MailQueue) worker() {
	defer q.wg.Done()
	for task := range q.tasks {
		if err := task.run(); err != nil {
			log.Printf("[Mail] Failed to send %s: %v", task.name, err)
		} else {
			log.Printf("[Mail] Sent %s", task.name)
		}
	}
}

package jobs

import (
	"log"
	"time"

	"gas-complaint-server/appstate"
	"gas-complaint-server/models"
)

// RetentionJob watches for complaints parked in the investigation hold
// beyond a threshold. The hold never auto-transitions: a complaint stays in
// investigation until an admin re-refers or closes it, so this job only
// observes and logs for follow-up.
type RetentionJob struct {
	state     *appstate.State
	threshold time.Duration
	stopChan  chan bool
}

// NewRetentionJob creates a new retention job
func NewRetentionJob(state *appstate.State, threshold time.Duration) *RetentionJob {
	return &RetentionJob{
		state:     state,
		threshold: threshold,
		stopChan:  make(chan bool),
	}
}

// Start begins the retention job
func (j *RetentionJob) Start() {
	go j.run()
	log.Println("🚀 Investigation retention job started")
}

// Stop stops the retention job
func (j *RetentionJob) Stop() {
	j.stopChan <- true
	log.Println("🛑 Investigation retention job stopped")
}

func (j *RetentionJob) run() {
	ticker := time.NewTicker(time.Hour)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			j.checkStaleInvestigations()
		case <-j.stopChan:
			return
		}
	}
}

// checkStaleInvestigations logs complaints whose investigation hold has had
// no activity past the threshold.
func (j *RetentionJob) checkStaleInvestigations() {
	cutoff := time.Now().Add(-j.threshold)
	stale := 0

	for _, c := range j.state.Complaints() {
		if c.Status != models.StatusInvestigation {
			continue
		}
		if lastActivity(&c).Before(cutoff) {
			stale++
			log.Printf("⏰ Complaint %s has been awaiting %s in investigation since %s",
				c.ID, c.InvestigationTarget, lastActivity(&c).Format(time.RFC3339))
		}
	}

	if stale > 0 {
		log.Printf("⏰ %d complaints are stale in investigation", stale)
	}
}

func lastActivity(c *models.Complaint) time.Time {
	last := c.CreatedAt
	for _, comment := range c.Comments {
		if comment.CreatedAt.After(last) {
			last = comment.CreatedAt
		}
	}
	return last
}

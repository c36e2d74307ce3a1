package core

import "yackgo/pkg/beacon"

// BeaconJob services the beacon countdown on every heartbeat.
type BeaconJob struct {
	scheduler *beacon.Scheduler
}

func NewBeaconJob(s *beacon.Scheduler) *BeaconJob {
	return &BeaconJob{scheduler: s}
}

func (j *BeaconJob) Name() string {
	return "Beacon"
}

func (j *BeaconJob) Tick() {
	j.scheduler.Tick()
}

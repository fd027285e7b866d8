// Package jobticket contains the job ticket document model.
// A job ticket is a completed checklist (sections of answered questions)
// together with the asset, work order and contract it was filled in for.
// Values are decoded from request payloads and live for a single render.
package jobticket

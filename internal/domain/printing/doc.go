// Package printing contains the page model used when rasterizing reports:
// paper sizes, orientation, margins and the page setup requested by a
// job ticket.
package printing

// Package appletv talks to the platform's catalog API and HLS delivery
// network: resolving a title page URL to playable streams, discovering
// subtitle tracks in master playlists, and downloading segmented WebVTT
// documents with CDN failover.
package appletv

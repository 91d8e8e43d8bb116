// Package models defines the data passed through the grab pipeline.
//
// The package contains three groups of types:
//
// 1. Inputs: records produced by the playlist source
//   - [TrackRequest] : one entry of the source playlist
//   - [PlaylistInfo] : name, owner and size of the source playlist
//
// 2. Search data: records produced by the search provider
//   - [Candidate] : one catalog search result
//   - [Thumbnail] : cover art reference, ordered lowest to highest quality
//
// 3. Outputs: records produced by the track processor
//   - [StatusCode] : a single classification label
//   - [Status] : an insertion-ordered, duplicate-free set of codes
//   - [TrackResult] : the report row for one TrackRequest
package models

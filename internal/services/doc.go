// Package services defines the narrow provider interfaces the grab pipeline depends on and implements them.
//
// # Providers
//
//   - [PlaylistSource] : ordered track records of the source playlist ([SpotifyService])
//   - [SearchProvider] : catalog search returning [models.Candidate] values ([YouTubeService])
//   - [DownloadProvider] : audio retrieval and transcoding to disk ([YTDLP])
//   - [TagWriter] : embedded metadata for downloaded files ([ID3Writer])
//
// # Spotify Implementation
//
// [SpotifyService] authenticates with the client-credentials flow from [clientcredentials];
// the returned [http.Client] refreshes the app token on its own. Playlist items are paged
// 100 at a time until the reported total is reached.
//
// # YouTube Music Implementation
//
// [YouTubeService] communicates with the FastAPI proxy server wrapping ytmusicapi.
// Searches may be throttled with a [rate.Limiter].
//
// # yt-dlp Implementation
//
// [YTDLP] shells out to the yt-dlp binary; it needs ffmpeg on PATH for transcoding.
//
// # Error Handling
//
// Services use typed errors from shared package:
//   - [shared.ErrAPIRequest] : HTTP request failed or returned a non-2xx status
//   - [shared.ErrPlaylistNotFound] : Playlist ID not found
//   - [shared.ErrAuthFailed] : client credentials rejected
package services

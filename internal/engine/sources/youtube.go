package sources

// YouTube implementation is split across files by responsibility:
//   youtube_videoid.go    — video id extraction from URLs and bare ids
//   youtube_records.go    — normalized record types (channel, playlist, video summary/detail)
//   youtube_normalize.go  — Data API items → records, per call shape
//   youtube_paginate.go   — cursor-driven page aggregation
//   youtube_envelope.go   — result envelope and its JSON form
//   youtube_data.go       — Data API v3 search and lookup operations
//   youtube_service.go    — Data API service construction from credentials
//   youtube_innertube.go  — Innertube player and timedtext types
//   youtube_transcript.go — transcript fetching (watch page + ANDROID player fallback)

package constant

const (
	OtelServiceScopeName    = "service"
	OtelRepositoryScopeName = "repository"
	OtelCacheScopeName      = "cache"

	OtelAlbumIDAttributeKey = "album.id"
	OtelCountAttributeKey   = "count"
	OtelFlowIDAttributeKey  = "flow.id"
	OtelFetchedAttributeKey = "import.fetched"
	OtelTotalAttributeKey   = "import.total"

	OtelRefreshRetriedEvent = "albums.refresh.retried"
	OtelFlowCancelledEvent  = "album.creation.cancelled"
)

const (
	StorageKeyAlbums      = "albums"
	StorageKeyImportState = "gallery:imported"
)

// Package pagination walks the paginated shares listing and collects the
// share id of every folder.
//
// The walk is strictly sequential:
//
//	collector := pagination.NewCollector(api, pagination.DefaultConfig())
//	result, err := collector.Collect(ctx)
//
// The collector:
//   - issues a bootstrap request for start=0 to read totalFolderCount
//   - requests pages start=0, pageSize, 2*pageSize, ... while start < total
//   - appends every non-empty shareId in server order
//   - stops at the first failed request and returns no partial result
//
// The bootstrap response is used for the total only. Page 0 is requested a
// second time inside the loop, so a run over T folders issues
// ceil(T/pageSize)+1 requests.
package pagination

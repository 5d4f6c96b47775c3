// Package imagery talks to the remote imagery-collection service.
//
// The service evaluates image expressions lazily: selecting a
// collection, filtering by date, compositing and reprojecting are all
// local expression-building steps, and no remote work happens until a
// download URL is requested for a concrete bounding box. The package
// mirrors that split:
//
//   - [NewCollection], [Collection.FilterDate], [Collection.Composite],
//     [Mosaic], [Image.Reproject] and [FromImage] build expressions and
//     never fail.
//   - [Client.DownloadURL] submits an expression plus a region request
//     and returns a time-limited URL. This is the potentially-failing
//     remote call.
//
// # Usage
//
//	img := imagery.NewCollection("MODIS/061/MCD12Q1", "LC_Type1").
//	    FilterDate(start, end).
//	    Composite().
//	    Reproject("EPSG:4326", 500)
//
//	url, err := client.DownloadURL(ctx, img, imagery.DownloadRequest{
//	    Region: ring,
//	    Scale:  500,
//	    CRS:    "EPSG:4326",
//	})
package imagery

package fetch

import (
	"fmt"

	"github.com/paulmach/orb"

	"github.com/geofetch/geofetch/internal/imagery"
)

// ArtifactName builds the final artifact filename for a region and time
// window: <collection_leaf>_<band>_<time_suffix>_<region_id>.tif.
// An absent time window keeps its empty slot so names stay aligned
// across frequency modes.
func ArtifactName(collectionID, band, timeSuffix, regionID string) string {
	return fmt.Sprintf("%s_%s_%s_%s.tif",
		imagery.CollectionLeaf(collectionID), band, timeSuffix, regionID)
}

// PartName builds the filename of one polygon-part intermediate:
// <collection_leaf>_<band>_<time_suffix>_<region_id>_part<i>.tif.
func PartName(collectionID, band, timeSuffix, regionID string, part int) string {
	return fmt.Sprintf("%s_%s_%s_%s_part%d.tif",
		imagery.CollectionLeaf(collectionID), band, timeSuffix, regionID, part)
}

// ImageArtifactName builds the filename for a single-image fetch, which
// carries no time window: <image_leaf>_<band>_<region_id>.tif.
func ImageArtifactName(imageID, band, regionID string) string {
	return fmt.Sprintf("%s_%s_%s.tif", imagery.CollectionLeaf(imageID), band, regionID)
}

// Key places an artifact filename under its region's folder.
func Key(regionID, filename string) string {
	return regionID + "/" + filename
}

// BBoxRing converts a bounding box to the four-corner ring the imagery
// service expects, counter-clockwise from the lower-left. The service
// closes the ring implicitly.
func BBoxRing(b orb.Bound) [][2]float64 {
	return [][2]float64{
		{b.Min[0], b.Min[1]},
		{b.Max[0], b.Min[1]},
		{b.Max[0], b.Max[1]},
		{b.Min[0], b.Max[1]},
	}
}

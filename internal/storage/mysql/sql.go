package mysql

// Businesses are keyed by source_url so re-crawling a listing updates
// records in place instead of piling up duplicates per run.
const insertBusinessesPrefix = "INSERT INTO businesses\n" +
	"  (id, source_url, name, city, full_address, phone, price_tag, categories, stars, review_count, lat, lon, image_url, is_claimed, is_closed)\n" +
	"VALUES "

const insertBusinessesOnDup = " ON DUPLICATE KEY UPDATE\n" +
	"  name         = VALUES(name),\n" +
	"  city         = VALUES(city),\n" +
	"  full_address = VALUES(full_address),\n" +
	"  phone        = VALUES(phone),\n" +
	"  price_tag    = VALUES(price_tag),\n" +
	"  categories   = VALUES(categories),\n" +
	"  stars        = VALUES(stars),\n" +
	"  review_count = VALUES(review_count),\n" +
	"  lat          = VALUES(lat),\n" +
	"  lon          = VALUES(lon),\n" +
	"  image_url    = VALUES(image_url),\n" +
	"  is_claimed   = VALUES(is_claimed),\n" +
	"  is_closed    = VALUES(is_closed),\n" +
	"  updated_at   = CURRENT_TIMESTAMP\n"

// Note: `text` is reserved; keep it quoted everywhere.
const insertReviewsPrefix = "INSERT INTO reviews\n" +
	"  (review_id, business_id, user_id, title, `text`, review_date, rating, votes)\n" +
	"VALUES "

// COALESCE keeps the stored value when a re-crawl lost a field.
const insertReviewsOnDup = " ON DUPLICATE KEY UPDATE\n" +
	"  business_id = VALUES(business_id),\n" +
	"  user_id     = COALESCE(VALUES(user_id), reviews.user_id),\n" +
	"  title       = VALUES(title),\n" +
	"  `text`      = VALUES(`text`),\n" +
	"  review_date = VALUES(review_date),\n" +
	"  rating      = VALUES(rating),\n" +
	"  votes       = VALUES(votes)\n"

const insertMissSQL = `
INSERT INTO crawl_misses (url, reason)
VALUES (?, ?)
ON DUPLICATE KEY UPDATE reason = VALUES(reason), seen_at = CURRENT_TIMESTAMP
`

// -----------------------------------------------------------------------------
// READ QUERIES
// -----------------------------------------------------------------------------

const getBusinessSQL = `
SELECT
  id,
  source_url,
  name,
  city,
  full_address,
  phone,
  price_tag,
  categories,
  stars,
  review_count,
  lat,
  lon,
  image_url,
  is_claimed,
  is_closed
FROM businesses
WHERE id = ?
`

const listBusinessesSQL = `
SELECT
  id,
  source_url,
  name,
  city,
  full_address,
  phone,
  price_tag,
  categories,
  stars,
  review_count,
  lat,
  lon,
  image_url,
  is_claimed,
  is_closed
FROM businesses
WHERE (? IS NULL OR city = ?)
ORDER BY stars DESC, review_count DESC, id
LIMIT ?
`

const listReviewsSQL = "SELECT review_id, business_id, user_id, title, `text`, review_date, rating, votes\n" +
	"FROM reviews\n" +
	"WHERE business_id = ?\n" +
	"ORDER BY votes DESC, review_id\n" +
	"LIMIT ?\n"

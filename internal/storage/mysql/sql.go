package mysql

const getOfficeSQL = `
SELECT code, name, address, lat, lng, is_default
FROM offices
WHERE code = ?`

const listOfficesSQL = `
SELECT code, name, address, lat, lng, is_default
FROM offices
ORDER BY is_default DESC, code`

const insertOfficeSQL = `
INSERT INTO offices (code, name, address, lat, lng, is_default)
VALUES (?, ?, ?, ?, ?, ?)
ON DUPLICATE KEY UPDATE
  name = VALUES(name),
  address = VALUES(address),
  lat = VALUES(lat),
  lng = VALUES(lng),
  is_default = VALUES(is_default)`

const insertVisitSQL = `
INSERT INTO visits (user_id, place_key, place_name, visited_at)
VALUES (?, ?, ?, CURRENT_TIMESTAMP)`

const insertEventSQL = `
INSERT INTO monitoring_events (ts, user_id, service, action, target_id, meta)
VALUES (CURRENT_TIMESTAMP, ?, ?, ?, ?, ?)`

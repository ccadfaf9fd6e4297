package customer

const customerColumnsSQL = `
c.customer_id, c.first_name, c.last_name, c.phone_number, c.created_at,
(SELECT COUNT(*) FROM address a WHERE a.customer_id = c.customer_id) AS address_count
`

// filterSQL expects: search, search pattern x3, city, city pattern
const filterSQL = `
WHERE (? = '' OR c.first_name LIKE ? ESCAPE '\' OR c.last_name LIKE ? ESCAPE '\' OR c.phone_number LIKE ? ESCAPE '\')
  AND (? = '' OR EXISTS (
    SELECT 1 FROM address a WHERE a.customer_id = c.customer_id AND a.city LIKE ? ESCAPE '\'
  ))
`

const listCustomersSQL = `
SELECT ` + customerColumnsSQL + `
FROM customer c
` + filterSQL + `
ORDER BY c.customer_id DESC
LIMIT ? OFFSET ?
`

const countCustomersSQL = `
SELECT COUNT(*)
FROM customer c
` + filterSQL

const getCustomerSQL = `
SELECT ` + customerColumnsSQL + `
FROM customer c
WHERE c.customer_id = ?
`

const createCustomerSQL = `
INSERT INTO customer (
    first_name, last_name, phone_number
) VALUES (?, ?, ?)
`

const updateCustomerSQL = `
UPDATE customer
SET first_name = ?, last_name = ?, phone_number = ?
WHERE customer_id = ?
`

const deleteCustomerSQL = `
DELETE FROM customer
WHERE customer_id = ?
`

const customerExistsSQL = `
SELECT EXISTS(
    SELECT 1 FROM customer WHERE customer_id = ?
)
`

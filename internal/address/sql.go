package address

const listAddressesSQL = `
SELECT address_id, customer_id, address_details, city, state, pin_code
FROM address
WHERE customer_id = ?
ORDER BY address_id
`

const getAddressSQL = `
SELECT address_id, customer_id, address_details, city, state, pin_code
FROM address
WHERE address_id = ?
`

const createAddressSQL = `
INSERT INTO address (
    customer_id, address_details, city, state, pin_code
) VALUES (?, ?, ?, ?, ?)
`

const updateAddressSQL = `
UPDATE address
SET address_details = ?, city = ?, state = ?, pin_code = ?
WHERE address_id = ?
`

const deleteAddressSQL = `
DELETE FROM address
WHERE address_id = ?
`
